package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/services"
)

// Printer renders command results to the terminal.
type Printer struct {
	out       io.Writer
	useColors bool
}

func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

// Prediction prints the label, confidence and every class score.
func (p *Printer) Prediction(pred domain.EmotionPrediction) {
	f := pred.Formatted()
	fmt.Fprintf(p.out, "%s %s (%s%%)\n", p.bold("Emotion:"), p.emotion(f.Emotion), f.Confidence)
	p.header("Scores")
	for _, label := range pred.Labels() {
		fmt.Fprintf(p.out, "  %-10s %6s%%\n", label, f.Scores[label])
	}
}

// Songs prints a recommendation result.
func (p *Printer) Songs(emotion string, res services.Resolution) {
	source := string(res.Source)
	if res.Reason != "" {
		source += " (" + res.Reason + ")"
	}
	fmt.Fprintf(p.out, "%s %s\n", p.bold("Source:"), p.dim(source))
	if len(res.Songs) == 0 {
		fmt.Fprintf(p.out, "No songs found for %q\n", emotion)
		return
	}
	p.header(fmt.Sprintf("Songs for %s", emotion))
	for i, s := range res.Songs {
		line := fmt.Sprintf("%2d. %s - %s", i+1, s.Title, s.Artist)
		if s.Genre != "" {
			line += " [" + s.Genre + "]"
		}
		fmt.Fprintln(p.out, line)
		if s.URL != "" {
			fmt.Fprintf(p.out, "    %s\n", p.dim(s.URL))
		}
	}
}

func (p *Printer) header(title string) {
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func (p *Printer) emotion(label string) string {
	if !p.useColors {
		return label
	}
	switch label {
	case domain.EmotionJoy, domain.EmotionLove:
		return color.GreenString(label)
	case domain.EmotionSadness, domain.EmotionFear:
		return color.BlueString(label)
	case domain.EmotionAnger:
		return color.RedString(label)
	default:
		return color.YellowString(label)
	}
}

func (p *Printer) bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

func (p *Printer) dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}
