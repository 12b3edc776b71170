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

package machine

import (
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Key identifies one of the sixteen logical keys of the hexadecimal
// keypad
//
//	Keypad                   Keyboard
//	+-+-+-+-+                +-+-+-+-+
//	|1|2|3|C|                |1|2|3|4|
//	+-+-+-+-+                +-+-+-+-+
//	|4|5|6|D|                |Q|W|E|R|
//	+-+-+-+-+       =>       +-+-+-+-+
//	|7|8|9|E|                |A|S|D|F|
//	+-+-+-+-+                +-+-+-+-+
//	|A|0|B|F|                |Z|X|C|V|
//	+-+-+-+-+                +-+-+-+-+
type Key uint8

const KeyUnknown Key = 255

// Display is the capability the machine requires from its display and
// input collaborator. The machine owns no pixels and no keyboard state;
// everything visible or audible happens through these calls.
type Display interface {
	// Blanks the framebuffer
	Clear()

	// XORs the pixel at (x, y) with value, wrapping coordinates modulo
	// the framebuffer dimensions. Returns true iff the pixel went from
	// set to unset, which the draw operation reports as a collision.
	SetPixel(x, y int, value bool) bool

	// Synchronous poll of the current keyboard state
	IsKeyPressed(key Key) bool

	// Non-blocking poll for the next mapped key press. Unmapped
	// physical keys are discarded by the collaborator and never
	// surface here.
	PollKey() (Key, bool)

	// Requests an audible alert of implementation-defined duration
	Buzz()
}

type MachineState struct {
	Memory    [MEMSPACE_SIZE]uint8
	Registers [REGISTER_COUNT]uint8
	Stack     [STACK_DEPTH]uint16

	// Program counter and index register, always 12-bit addressable
	Program uint16
	Index   uint16

	// Next free stack slot; Stack[Pointer-1] is the current frame
	Pointer uint8

	Delay uint8
	Sound uint8

	// Set while a suspended key-wait is in flight; WaitReg names the
	// register the next key press lands in
	Waiting bool
	WaitReg uint8
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	State    MachineState
	Display  Display
	Debugger MachineDebugger

	// Log receives unsupported-opcode diagnostics and, when Trace is
	// set, a per-instruction execution trace. Nil disables both.
	Log   *log.Logger
	Trace bool

	// Clock provides monotonic time for the cycle scheduler and is
	// replaceable in tests
	Clock func() time.Time

	rng       *rand.Rand
	lastCycle time.Time
	lastTick  time.Time
}
