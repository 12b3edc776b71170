// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/lassandro/goc8/pkg/debugger"
	"github.com/lassandro/goc8/pkg/display"
	"github.com/lassandro/goc8/pkg/machine"
)

var helpvar bool
var debugvar bool
var tracevar bool
var mutevar bool
var videovar string

const usage = "goc8 [-debug] [-trace] [-mute] [-video ebiten|terminal|headless] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(&tracevar, "trace", false, "Logs every executed instruction")
	flag.BoolVar(&mutevar, "mute", false, "Disables the audio buzzer")
	flag.StringVar(&videovar, "video", "ebiten", "Selects the display backend")
	flag.Parse()
}

func newLogger() *log.Logger {
	cfg := log.DefaultConfig()

	if tracevar {
		cfg.Level = log.DebugLevel
	}

	return log.NewWithConfig(cfg)
}

func goc8() int {
	if helpvar {
		fmt.Println(usage)
		return 0
	}

	logger := newLogger()
	args := flag.Args()

	if len(args) != 1 {
		logger.Error(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		logger.Error("cannot open program", log.Err(err))
		return 1
	}

	defer file.Close()

	mc := machine.NewMachine()
	mc.Log = logger
	mc.Trace = tracevar

	if err := mc.Load(file); err != nil {
		logger.Error("load failed", log.Err(err))
		return 1
	}

	var beeper display.Beeper

	if !mutevar && videovar != "headless" {
		buzzer, err := display.NewBuzzer()

		if err != nil {
			logger.Warn("audio unavailable, continuing muted", log.Err(err))
		} else {
			beeper = buzzer
			defer buzzer.Close()
		}
	}

	if debugvar {
		if videovar == "terminal" {
			logger.Error("-debug needs the terminal for its CLI, use -video ebiten")
			return 1
		}

		dbg := &debugger.Debugger{
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
		}
		mc.Debugger = dbg

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()
	}

	switch videovar {
	case "ebiten":
		window := display.NewEbiten("goc8", 10, beeper)
		mc.Display = window

		if debugvar {
			debugREPL(mc.Debugger.(*debugger.Debugger), mc)
		}

		window.Start()
		defer window.Stop()

		return run(mc, window.Done(), logger)

	case "terminal":
		term := display.NewTerminal(os.Stdin, os.Stdout, beeper)
		mc.Display = term

		enterRawTerm()
		defer exitRawTerm()

		term.Start()
		defer term.Stop()

		return run(mc, term.Done(), logger)

	case "headless":
		headless := display.NewHeadless()
		mc.Display = headless

		if debugvar {
			debugREPL(mc.Debugger.(*debugger.Debugger), mc)
		}

		interrupted := make(chan os.Signal, 1)
		signal.Notify(interrupted, os.Interrupt)

		done := make(chan struct{})
		go func() {
			<-interrupted
			close(done)
		}()

		return run(mc, done, logger)

	default:
		logger.Error(usage)
		return 1
	}
}

// Drives the machine's dual clocks until the display session ends or
// the machine faults
func run(mc *machine.Machine, done <-chan struct{}, logger *log.Logger) int {
	for {
		select {
		case <-done:
			return 0
		default:
		}

		if err := mc.Cycle(); err != nil {
			var fault *machine.Fault

			if errors.As(err, &fault) {
				logger.Error("machine fault", log.Err(fault))
			} else {
				logger.Error("machine stopped", log.Err(err))
			}

			return 1
		}

		// The scheduler self-times against its own clocks; sleeping
		// briefly keeps the host loop from spinning a core
		time.Sleep(200 * time.Microsecond)
	}
}

func main() {
	os.Exit(goc8())
}
