package main

import (
	"time"

	"log"

	"github.com/jroimartin/gocui"

	"gekko/console"
	"gekko/system"
)

func main() {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln("Couldn't create gui!")
	}
	defer g.Close()

	g.SetManagerFunc(layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	// start the monitor
	g.Update(startMonitor)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

// startMonitor wires the emulated memory subsystem and attaches the
// command handler to the prompt view.
func startMonitor(g *gocui.Gui) error {
	statusView, err := g.View("status")
	if err != nil {
		return err
	}
	statusView.Clear()

	stateView, err := g.View("machine")
	if err != nil {
		return err
	}
	stateView.Clear()

	commandView, err := g.View("command")
	if err != nil {
		return err
	}
	commandView.Editable = true
	if _, err := g.SetCurrentView("command"); err != nil {
		return err
	}
	g.Cursor = true

	cons := console.NewGui(g, "status")
	if err := cons.WriteConsole("Gekko memory monitor. 'help' lists commands.\n"); err != nil {
		return err
	}

	sys := system.New(system.Config{FullMMU: true, FakeVMEM: false}, nil, nil, nil, nil)
	mon := NewMonitor(sys, cons)

	if err := g.SetKeybinding("command", gocui.KeyEnter, gocui.ModNone, mon.handleCommand); err != nil {
		return err
	}

	updateMachineState(sys, g)
	return nil
}

// update the machine state display once a second
// gocui allows updating a view only through Update
func updateMachineState(sys *system.System, g *gocui.Gui) {
	ticker := time.NewTicker(time.Second * 1)

	go func() {
		for range ticker.C {
			g.Update(func(g *gocui.Gui) error {
				v, err := g.View("machine")
				if err != nil {
					return err
				}
				v.Clear()
				dumpMachineState(sys, v)
				return nil
			})
		}
	}()
}

// gocui layout
func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// up -> monitor output
	if v, err := g.SetView("status", 0, 0, maxX-1, maxY-8); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Monitor"
		v.Autoscroll = true
	}

	// middle -> machine state
	if v, err := g.SetView("machine", 0, maxY-7, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Machine"
	}

	// down -> command prompt
	if v, err := g.SetView("command", 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Command"
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
