package console

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"
)

// Gui displays monitor output in a gocui view.
type Gui struct {
	consoleOut  chan string // string channel, to which the console data is sent to
	g           *gocui.Gui  // main gocui GUI object
	v           *gocui.View // gocui view of the monitor console
	currentLine int         // counter to keep the position of the cursor
}

// NewGui returns a pointer to the new console and runs the initialization
// procedure:
func NewGui(g *gocui.Gui, viewName string) *Gui {
	c := new(Gui)
	c.consoleOut = make(chan string)
	c.g = g
	c.v, _ = g.View(viewName)
	c.initGui()
	return c
}

func (c *Gui) initGui() {
	go func() {
		for {
			s := <-c.consoleOut
			c.g.Update(func(g *gocui.Gui) error {
				fmt.Fprintf(c.v, "%s", s)
				return nil
			})
		}
	}()
}

// WriteConsole displays a string on the console
func (c *Gui) WriteConsole(msg string) error {
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			c.consoleOut <- line + "\n"
			c.v.MoveCursor(0, 1, true)
			c.currentLine++
		}
	}
	return nil
}
