package termio

import (
	"fmt"
	"os"
)

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_BLUE represents blue
const TERM_BLUE = uint(4)

// TERM_MAGENTA represents magenta
const TERM_MAGENTA = uint(5)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// AnsiEscape represents an ANSI escape code used for formatting text in a terminal.
type AnsiEscape struct {
	escape string
	count  uint
}

// NewAnsiEscape construct an empty escape
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033", 0}
}

// ResetAnsiEscape constructs a reset term.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[0", 1}
}

// BoldAnsiEscape constructs a bold term.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[1", 1}
}

// FgColour sets the foreground colour
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.append(col + 30)
}

// BgColour sets the background colour
func (p AnsiEscape) BgColour(col uint) AnsiEscape {
	return p.append(col + 40)
}

// Build constructs the final escape
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("%sm", p.escape)
}

// Wrap a given piece of text such that it is displayed with this escape, and
// formatting is reset afterwards.
func (p AnsiEscape) Wrap(text string) string {
	return p.Build() + text + ResetAnsiEscape().Build()
}

func (p AnsiEscape) append(code uint) AnsiEscape {
	var escape string
	//
	if p.count > 0 {
		escape = fmt.Sprintf("%s;%d", p.escape, code)
	} else {
		escape = fmt.Sprintf("%s[%d", p.escape, code)
	}
	// Done
	return AnsiEscape{escape, p.count + 1}
}

// Formatter applies escapes to text, or not, depending on whether its output
// is a terminal.
type Formatter struct {
	enabled bool
}

// NewFormatter constructs a formatter which applies escapes only if the given
// file is a terminal.
func NewFormatter(file *os.File) Formatter {
	return Formatter{IsTerminal(file)}
}

// PlainFormatter constructs a formatter which never applies escapes.
func PlainFormatter() Formatter {
	return Formatter{false}
}

// Format a given piece of text with a given escape (if enabled).
func (p Formatter) Format(escape AnsiEscape, text string) string {
	if p.enabled {
		return escape.Wrap(text)
	}
	//
	return text
}
