package main

import "fmt"

type ProgressBar struct {
	str string

	Width int

	// what ascii to show in the bar
	// █████░░░░░
	// where the first run is completed and the rest is not
	ASCIICompleted    string
	ASCIINotCompleted string
}

func NewProgressBar() *ProgressBar {
	return &ProgressBar{
		ASCIICompleted:    "█",
		ASCIINotCompleted: "░",
	}
}

func (p *ProgressBar) View() string {
	return p.str
}

func (p *ProgressBar) Update(width int, percentage float64) {
	p.str = ""

	barWidth := width - 10
	if barWidth < 10 {
		barWidth = 10
	}

	normalized := percentage / 100
	for i := 0; i < barWidth; i++ {
		if float64(i)/float64(barWidth) < normalized {
			p.str += p.ASCIICompleted
		} else {
			p.str += p.ASCIINotCompleted
		}
	}
	p.str += fmt.Sprintf(" %5.1f%%", percentage)
}
