package character

import (
	"math"

	"semester/internal/domain/activity"
)

const NeutralModifier = 1.0

type domainWeight struct {
	Key    DomainKey
	Weight float64
}

// Weights per activity sum to 1 so a character at level 100 everywhere
// resolves to exactly 1.0.
var domainWeights = map[activity.Activity][]domainWeight{
	activity.Study: {
		{IntellectualCompetence, 0.6},
		{EmotionalIntelligence, 0.2},
		{PersonalAutonomy, 0.2},
	},
	activity.Work: {
		{PersonalAutonomy, 0.4},
		{IntellectualCompetence, 0.3},
		{LifePurpose, 0.3},
	},
	activity.Social: {
		{SocialCompetence, 0.6},
		{EmotionalIntelligence, 0.3},
		{IdentityClarity, 0.1},
	},
	activity.Rest: {
		{EmotionalIntelligence, 0.5},
		{PhysicalCompetence, 0.3},
		{IdentityClarity, 0.2},
	},
	activity.Exercise: {
		{PhysicalCompetence, 0.7},
		{PersonalAutonomy, 0.2},
		{LifePurpose, 0.1},
	},
}

// ResolveModifier returns the efficiency multiplier the character applies to
// an activity. It never fails: missing characters, unknown activities and
// non-finite attribute data all resolve to NeutralModifier.
func ResolveModifier(c Character, a activity.Activity) float64 {
	var m float64
	switch ch := c.(type) {
	case nil:
		return NeutralModifier
	case *FlatCharacter:
		if ch == nil {
			return NeutralModifier
		}
		m = flatModifier(ch.Attributes, a)
	case *DomainCharacter:
		if ch == nil {
			return NeutralModifier
		}
		m = domainModifier(ch, a)
	default:
		return NeutralModifier
	}
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return NeutralModifier
	}
	return m
}

func flatModifier(attrs Attributes, a activity.Activity) float64 {
	switch a {
	case activity.Study:
		return (attrs.Intelligence + attrs.Focus + attrs.Memory) / 30
	case activity.Work:
		return (attrs.Perseverance + attrs.Focus + attrs.SelfControl) / 30
	case activity.Social:
		return (attrs.Charisma + attrs.Empathy + attrs.Communication) / 30
	case activity.Rest:
		return (attrs.StressTolerance + attrs.SelfControl) / 20
	case activity.Exercise:
		return (attrs.Endurance + attrs.Strength + attrs.Agility) / 30
	default:
		return NeutralModifier
	}
}

func domainModifier(c *DomainCharacter, a activity.Activity) float64 {
	weights, ok := domainWeights[a]
	if !ok {
		return NeutralModifier
	}
	sum := 0.0
	for _, w := range weights {
		sum += w.Weight * c.level(w.Key)
	}
	return sum / MaxDomainLevel
}

// RestQuality scales the extra stress relief earned from rest hours.
func RestQuality(c Character) float64 {
	var q float64
	switch ch := c.(type) {
	case nil:
		return NeutralModifier
	case *FlatCharacter:
		if ch == nil {
			return NeutralModifier
		}
		q = ch.Attributes.StressTolerance / MaxAttribute
	case *DomainCharacter:
		if ch == nil {
			return NeutralModifier
		}
		q = ch.EmotionalIntelligence.Level / MaxDomainLevel
	default:
		return NeutralModifier
	}
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return NeutralModifier
	}
	return q
}
