package xterm

import (
	"bytes"
	"fmt"
	"os"
)

var Warn = Red

type Color interface {
	B(text string) []byte
	S(text string) string
}

type color struct {
	f uint8
	b uint8
}

// Standard XTerm Colors
var (
	Green  = Auto(color{f: 32, b: 1})
	Yellow = Auto(color{f: 33, b: 1})
	Red    = Auto(color{f: 35, b: 1})
)

// Auto returns NoColor when the NO_COLOR environment variable is set.
func Auto(c Color) Color {
	if _, ok := os.LookupEnv(`NO_COLOR`); ok {
		return NoColor
	}
	return c
}

func (c color) bs(text string) *bytes.Buffer {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "\x1b[%d;%dm", c.b, c.f)
	buf.WriteString(text)
	buf.WriteString("\x1b[m")
	return buf
}

func (c color) B(text string) []byte {
	return c.bs(text).Bytes()
}

func (c color) S(text string) string {
	return c.bs(text).String()
}

var NoColor = noColor{}

type noColor struct{}

func (c noColor) B(text string) []byte {
	return []byte(text)
}

func (c noColor) S(text string) string {
	return text
}
