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
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/goc8/pkg/debugger"
	"github.com/lassandro/goc8/pkg/encoding"
	"github.com/lassandro/goc8/pkg/machine"
)

var lastcmd []string

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x####]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		exists := false

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				exists = true
				break
			}
		}

		if !exists {
			dbg.Breakpoints = append(
				dbg.Breakpoints,
				debugger.Breakpoint{Addr: addr},
			)

			fmt.Printf("Breakpoint added [%#04x]\n", addr)
		}

	case "l", "ls", "list":
		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf("#%d: %#04x\n", i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = dbg.Breakpoints[:0]

	default:
		log.Println(usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|remove]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x####] [r|w|rw]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var watchtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			watchtype = debugger.ReadWatch
		case "w", "write":
			watchtype = debugger.WriteWatch
		case "rw", "readwrite":
			watchtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		dbg.Watchpoints = append(
			dbg.Watchpoints,
			debugger.Watchpoint{Addr: addr, Type: watchtype},
		)

		fmt.Printf("Watchpoint added [%#04x]\n", addr)

	case "l", "ls", "list":
		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf("#%d: %#04x\n", i, watchpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = dbg.Watchpoints[:0]

	default:
		log.Println(usage)
	}
}

func debugMemory(mc *machine.Machine, args []string) {
	const usage = "memory [0x####] [#count]"

	addr := mc.State.Program
	count := uint16(16)

	if len(args) > 0 {
		result, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		addr = result
	}

	if len(args) > 1 {
		result, err := encoding.DecodeInt(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		count = uint16(result)
	}

	dbg := mc.Debugger.(*debugger.Debugger)
	dbg.PrintMem(&mc.State, addr, count)
}

func debugDisasm(mc *machine.Machine, args []string) {
	const usage = "disasm [0x####] [#count]"

	addr := mc.State.Program
	count := uint16(8)

	if len(args) > 0 {
		result, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		addr = result
	}

	if len(args) > 1 {
		result, err := encoding.DecodeInt(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		count = uint16(result)
	}

	dbg := mc.Debugger.(*debugger.Debugger)
	dbg.PrintDisasm(&mc.State, addr, count)
}

func debugStep(mc *machine.Machine, args []string) {
	count := 1

	if len(args) > 0 {
		result, err := encoding.DecodeInt(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		count = int(result)
	}

	for i := 0; i < count; i++ {
		if err := mc.Step(); err != nil {
			log.Println(err)
			return
		}
	}

	dbg := mc.Debugger.(*debugger.Debugger)
	dbg.PrintDisasm(&mc.State, mc.State.Program, 1)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(goc8) ")

		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())

		if len(fields) == 0 {
			if lastcmd == nil {
				continue
			}

			fields = lastcmd
		}

		lastcmd = fields

		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			dbg.PrintRegisters(&mc.State)

		case "m", "mem", "memory":
			debugMemory(mc, args)

		case "d", "dis", "disasm":
			debugDisasm(mc, args)

		case "s", "step":
			debugStep(mc, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "q", "quit", "exit":
			os.Exit(0)

		case "h", "help":
			fmt.Println("break watch registers memory disasm step continue quit")

		default:
			fmt.Printf("Unknown command %q, try 'help'\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	dbg.Break = false
	dbg.PrintDisasm(&mc.State, mc.State.Program, 1)
	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Printf("Watchpoint read [%#04x]\n", addr)
	dbg.Break = true
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Printf("Watchpoint write [%#04x]\n", addr)
	dbg.Break = true
}
