// Package ui holds the terminal styles used by simctl.
package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"semester/internal/domain/simulation"
)

const (
	IconDay     = "📅"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconCrash   = "💥"
	IconRecover = "🛌"
	IconOK      = "✅"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

const barWidth = 20

func Heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// Bar renders v on a 0..100 scale. invert colours high values as bad, for
// stress.
func Bar(v float64, invert bool) string {
	if math.IsNaN(v) {
		return Bad.Render(strings.Repeat("?", barWidth))
	}
	clamped := math.Max(0, math.Min(100, v))
	filled := int(math.Round(clamped / 100 * barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	level := clamped
	if invert {
		level = 100 - clamped
	}
	switch {
	case level < 20:
		return Bad.Render(bar)
	case level < 50:
		return Warn.Render(bar)
	default:
		return Good.Render(bar)
	}
}

func Resources(r simulation.Resources) string {
	lines := []string{
		fmt.Sprintf("%s %s %6.1f", Key.Render("energy   "), Bar(r.Energy, false), r.Energy),
		fmt.Sprintf("%s %s %6.1f", Key.Render("stress   "), Bar(r.Stress, true), r.Stress),
		LabelValue("knowledge", fmt.Sprintf("%.1f", r.Knowledge)),
		LabelValue("social   ", fmt.Sprintf("%.1f", r.Social)),
		LabelValue("money    ", fmt.Sprintf("$%.2f", r.Money)),
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

func Allocation(a simulation.TimeAllocation) string {
	var b strings.Builder
	for i, act := range []string{"study", "work", "social", "rest", "exercise"} {
		v := []float64{a.Study, a.Work, a.Social, a.Rest, a.Exercise}[i]
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%s %.0f%%", Muted.Render(act), v)
	}
	return b.String()
}

func Validation(v simulation.Validation) string {
	switch v.Severity {
	case simulation.SeverityError:
		return Bad.Render(IconError + " " + v.Message)
	case simulation.SeverityWarning:
		return Warn.Render(IconWarn + " " + v.Message)
	default:
		return Good.Render(IconOK + " " + v.Message)
	}
}

// Delta renders a signed change. invert marks increases as bad.
func Delta(v float64, invert bool) string {
	s := fmt.Sprintf("%+.2f", v)
	good := v > 0
	if invert {
		good = v < 0
	}
	switch {
	case v == 0:
		return Muted.Render(s)
	case good:
		return Good.Render(s)
	default:
		return Bad.Render(s)
	}
}
