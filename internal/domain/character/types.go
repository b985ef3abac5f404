package character

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCharacterVariant = errors.New("unknown character variant")
	ErrInvalidDomain           = errors.New("invalid character domain")
)

type Variant string

const (
	VariantFlat   Variant = "flat"
	VariantDomain Variant = "domain"
)

// Character is implemented only by *FlatCharacter and *DomainCharacter.
// A nil Character means no character is loaded.
type Character interface {
	Variant() Variant
	isCharacter()
}

type Attributes struct {
	Intelligence       float64 `json:"intelligence"`
	Creativity         float64 `json:"creativity"`
	Memory             float64 `json:"memory"`
	Focus              float64 `json:"focus"`
	Strength           float64 `json:"strength"`
	Agility            float64 `json:"agility"`
	Endurance          float64 `json:"endurance"`
	Dexterity          float64 `json:"dexterity"`
	Charisma           float64 `json:"charisma"`
	Empathy            float64 `json:"empathy"`
	Communication      float64 `json:"communication"`
	EmotionalStability float64 `json:"emotionalStability"`
	Perseverance       float64 `json:"perseverance"`
	StressTolerance    float64 `json:"stressTolerance"`
	Adaptability       float64 `json:"adaptability"`
	SelfControl        float64 `json:"selfControl"`
}

const (
	MinAttribute = 1
	MaxAttribute = 10
)

func DefaultAttributes() Attributes {
	return Attributes{
		Intelligence:       6,
		Creativity:         6,
		Memory:             6,
		Focus:              6,
		Strength:           6,
		Agility:            6,
		Endurance:          6,
		Dexterity:          6,
		Charisma:           6,
		Empathy:            6,
		Communication:      6,
		EmotionalStability: 6,
		Perseverance:       6,
		StressTolerance:    6,
		Adaptability:       6,
		SelfControl:        4,
	}
}

type FlatCharacter struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`
}

func (*FlatCharacter) Variant() Variant { return VariantFlat }
func (*FlatCharacter) isCharacter()     {}

type DomainKey string

const (
	IntellectualCompetence DomainKey = "intellectualCompetence"
	PhysicalCompetence     DomainKey = "physicalCompetence"
	EmotionalIntelligence  DomainKey = "emotionalIntelligence"
	SocialCompetence       DomainKey = "socialCompetence"
	PersonalAutonomy       DomainKey = "personalAutonomy"
	IdentityClarity        DomainKey = "identityClarity"
	LifePurpose            DomainKey = "lifePurpose"
)

var DomainKeys = []DomainKey{
	IntellectualCompetence,
	PhysicalCompetence,
	EmotionalIntelligence,
	SocialCompetence,
	PersonalAutonomy,
	IdentityClarity,
	LifePurpose,
}

const (
	MinStage       = 1
	MaxStage       = 5
	MinComponents  = 2
	MaxComponents  = 4
	MaxDomainLevel = 100
	MaxConfidence  = 100
)

type Domain struct {
	Level            float64            `json:"level"`
	DevelopmentStage int                `json:"developmentStage"`
	ExperiencePoints float64            `json:"experiencePoints"`
	Confidence       float64            `json:"confidence"`
	Components       map[string]float64 `json:"components"`
}

type DomainCharacter struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	IntellectualCompetence Domain `json:"intellectualCompetence"`
	PhysicalCompetence     Domain `json:"physicalCompetence"`
	EmotionalIntelligence  Domain `json:"emotionalIntelligence"`
	SocialCompetence       Domain `json:"socialCompetence"`
	PersonalAutonomy       Domain `json:"personalAutonomy"`
	IdentityClarity        Domain `json:"identityClarity"`
	LifePurpose            Domain `json:"lifePurpose"`
}

func (*DomainCharacter) Variant() Variant { return VariantDomain }
func (*DomainCharacter) isCharacter()     {}

func (c *DomainCharacter) Domain(key DomainKey) (Domain, bool) {
	switch key {
	case IntellectualCompetence:
		return c.IntellectualCompetence, true
	case PhysicalCompetence:
		return c.PhysicalCompetence, true
	case EmotionalIntelligence:
		return c.EmotionalIntelligence, true
	case SocialCompetence:
		return c.SocialCompetence, true
	case PersonalAutonomy:
		return c.PersonalAutonomy, true
	case IdentityClarity:
		return c.IdentityClarity, true
	case LifePurpose:
		return c.LifePurpose, true
	default:
		return Domain{}, false
	}
}

func (c *DomainCharacter) level(key DomainKey) float64 {
	d, _ := c.Domain(key)
	return d.Level
}

func (c *DomainCharacter) Validate() error {
	for _, key := range DomainKeys {
		d, _ := c.Domain(key)
		if d.Level < 0 || d.Level > MaxDomainLevel {
			return fmt.Errorf("%w: %s level %.1f out of range", ErrInvalidDomain, key, d.Level)
		}
		if d.DevelopmentStage < MinStage || d.DevelopmentStage > MaxStage {
			return fmt.Errorf("%w: %s stage %d out of range", ErrInvalidDomain, key, d.DevelopmentStage)
		}
		if n := len(d.Components); n < MinComponents || n > MaxComponents {
			return fmt.Errorf("%w: %s has %d components", ErrInvalidDomain, key, n)
		}
	}
	return nil
}
