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

package debugger

import (
	"fmt"

	"github.com/lassandro/goc8/pkg/machine"
)

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// PrintDisasm prints count disassembled instructions starting at addr,
// marking the program counter's line
func (dbg *Debugger) PrintDisasm(mc *machine.MachineState, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		offset := addr + i*2

		if offset > uint16(len(mc.Memory)-2) {
			break
		}

		word := uint16(mc.Memory[offset])<<8 | uint16(mc.Memory[offset+1])

		if offset == mc.Program {
			fmt.Printf("\033[1m[%#04x]>\033[0m %s\n", offset, machine.Disassemble(word))
		} else {
			fmt.Printf("\033[1m[%#04x]\033[0m  %s\n", offset, machine.Disassemble(word))
		}
	}
}

// PrintMem prints count bytes of memory starting at addr
func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	for i := addr; i < addr+count && int(i) < len(mc.Memory); i++ {
		if i == addr {
			fmt.Printf("\033[1m[%#04x]\033[0m ", i)
		} else if (i-addr)%8 == 0 {
			fmt.Println()
			fmt.Printf("\033[1m[%#04x]\033[0m ", i)
		}

		result := mc.Memory[i]

		if result == 0 {
			fmt.Printf("\033[1;30m%#02x\033[0m ", result)
		} else {
			fmt.Printf("%#02x ", result)
		}
	}

	fmt.Println()
}

// PrintRegisters dumps the full register file, timers and call stack
func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	for i, value := range mc.Registers {
		fmt.Printf("V%X:%#02x ", i, value)

		if (i+1)%8 == 0 {
			fmt.Println()
		}
	}

	fmt.Printf("PC:%#04x I:%#04x SP:%d\n", mc.Program, mc.Index, mc.Pointer)
	fmt.Printf("Delay:%#02x Sound:%#02x", mc.Delay, mc.Sound)

	if mc.Waiting {
		fmt.Printf(" (waiting for key -> V%X)", mc.WaitReg)
	}

	fmt.Println()

	for i := uint8(0); i < mc.Pointer; i++ {
		fmt.Printf("Stack[%d]:%#04x\n", i, mc.Stack[i])
	}
}
