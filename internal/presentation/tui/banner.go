package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the gatlab banner, shading each line with the terminal's color profile.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"             _   _       _     ", "#818cf8"},
		{"  __ _  __ _| |_| | __ _| |__  ", "#a78bfa"},
		{" / _` |/ _` | __| |/ _` | '_ \\ ", "#c084fc"},
		{"| (_| | (_| | |_| | (_| | |_) |", "#e879f9"},
		{" \\__, |\\__,_|\\__|_|\\__,_|_.__/ ", "#f472b6"},
		{" |___/                         ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status colors a short status word: green for ok, red otherwise.
func Status(ok bool, text string) string {
	p := termenv.ColorProfile()
	color := "#ef4444"
	if ok {
		color = "#22c55e"
	}
	return termenv.String(text).Foreground(p.Color(color)).Bold().String()
}
