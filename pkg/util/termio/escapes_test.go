package termio

import (
	"testing"

	"github.com/consensys/go-tapevm/pkg/util/assert"
)

func TestAnsiEscape_01(t *testing.T) {
	escape := NewAnsiEscape().FgColour(TERM_RED)
	//
	assert.Equal(t, "\033[31m", escape.Build())
}

func TestAnsiEscape_02(t *testing.T) {
	escape := BoldAnsiEscape().FgColour(TERM_CYAN).BgColour(TERM_BLUE)
	//
	assert.Equal(t, "\033[1;36;44m", escape.Build())
	assert.Equal(t, "\033[1;36;44mx\033[0m", escape.Wrap("x"))
}

func TestFormatter_01(t *testing.T) {
	formatter := PlainFormatter()
	//
	assert.Equal(t, "text", formatter.Format(BoldAnsiEscape(), "text"))
}

func TestFormatter_02(t *testing.T) {
	formatter := Formatter{true}
	//
	assert.Equal(t, "\033[1mtext\033[0m", formatter.Format(BoldAnsiEscape(), "text"))
}
