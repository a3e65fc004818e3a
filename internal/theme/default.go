package theme

import (
	"fmt"
	"strings"
)

type Color struct {
	R, G, B uint8
}

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(duration string, style Style) string {
	return colored(getStyleColor(style), getSymbol(duration))
}

func (t *DefaultTheme) RenderTargetLine() string {
	return colored(styleColors[Target], targetSym)
}

func (t *DefaultTheme) RenderStaffLine() string {
	return staffSym
}

func (t *DefaultTheme) RenderFeedback(feedback string) string {
	switch {
	case feedback == "Correct!":
		return colored(styleColors[Played], feedback)
	case strings.HasPrefix(feedback, "Missed"), strings.HasPrefix(feedback, "Incorrect"):
		return colored(styleColors[Missed], feedback)
	}
	return feedback
}

const (
	targetSym = "│"
	staffSym  = "─"
)

var (
	syms = map[string]string{
		"w":  "𝅝",
		"h":  "𝅗𝅥",
		"q":  "♩",
		"8":  "♪",
		"16": "♬",
	}
	styleColors = map[Style]Color{
		Pending: {236, 236, 236}, // white
		Target:  {0, 118, 236},   // blue
		Played:  {0, 200, 83},    // green
		Missed:  {236, 30, 0},    // red
	}
)

func colored(c Color, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func getSymbol(duration string) string {
	sym, ok := syms[duration]
	if !ok {
		return syms["q"]
	}
	return sym
}

func getStyleColor(s Style) Color {
	col, ok := styleColors[s]
	if !ok {
		return styleColors[Pending]
	}
	return col
}
