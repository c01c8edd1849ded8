package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// States of widthBuffer while skipping an mIRC color code "\x03FG,BG".
const (
	colorNone = iota
	colorStart
	colorFg1
	colorFg2
	colorComma
	colorBg1
)

type widthBuffer struct {
	width int
	color int
}

func (wb *widthBuffer) Width() int {
	return wb.width
}

func (wb *widthBuffer) WriteString(s string) {
	for _, r := range s {
		wb.WriteRune(r)
	}
}

func (wb *widthBuffer) WriteRune(r rune) {
	isDigit := '0' <= r && r <= '9'

	switch wb.color {
	case colorStart:
		wb.color = colorNone
		if isDigit {
			wb.color = colorFg1
			return
		}
	case colorFg1:
		wb.color = colorNone
		if isDigit {
			wb.color = colorFg2
			return
		}
		if r == ',' {
			wb.color = colorComma
			return
		}
	case colorFg2:
		wb.color = colorNone
		if r == ',' {
			wb.color = colorComma
			return
		}
	case colorComma:
		wb.color = colorNone
		if isDigit {
			wb.color = colorBg1
			return
		}
		// The comma was not part of the color code.
		wb.width++
	case colorBg1:
		wb.color = colorNone
		if isDigit {
			return
		}
	}

	if r == 0x03 {
		wb.color = colorStart
		return
	}

	wb.width += runewidth.RuneWidth(r)
}

// StringWidth returns the number of columns s takes on a terminal, ignoring
// IRC formatting codes.
func StringWidth(s string) int {
	var wb widthBuffer

	wb.WriteString(s)

	return wb.Width()
}

// PadRight appends spaces to s until it takes width columns.  Longer strings
// are truncated with an ellipsis.
func PadRight(s string, width int) string {
	w := StringWidth(s)
	if w > width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
