package console

import (
	"os"
	"strings"
)

// Simple writes monitor output straight to stdout.
type Simple struct {
	consoleOut  chan string // string channel, to which the console data is sent to
	currentLine int         // counter to keep the position of the cursor
}

// NewSimple returns a pointer to the new console and runs the
// initialization procedure:
func NewSimple() *Simple {
	c := new(Simple)
	c.consoleOut = make(chan string)
	c.initSimple()
	return c
}

func (c *Simple) initSimple() {
	go func() {
		for {
			s := <-c.consoleOut
			os.Stdout.Write([]byte(s))
		}
	}()
}

// WriteConsole displays a string on the console
func (c *Simple) WriteConsole(msg string) error {
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			c.consoleOut <- line + "\n"
			c.currentLine++
		}
	}
	return nil
}
