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
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/lassandro/goc8/pkg/encoding"
)

// NewMachine returns a reset machine whose random generator is seeded
// from the host's entropy source. The generator is per-instance state;
// two machines never share one.
func NewMachine() *Machine {
	var seed [8]byte

	if _, err := cryptorand.Read(seed[:]); err != nil {
		// Entropy exhaustion is not an interesting failure mode for a
		// game interpreter; fall back to the wall clock
		return NewMachineSeeded(time.Now().UnixNano())
	}

	return NewMachineSeeded(int64(binary.LittleEndian.Uint64(seed[:])))
}

// NewMachineSeeded returns a reset machine with a fixed random seed.
// Identical seeds produce identical Cxnn sequences.
func NewMachineSeeded(seed int64) *Machine {
	mc := &Machine{
		Clock: time.Now,
		rng:   rand.New(rand.NewSource(seed)),
	}

	mc.State.Reset()
	mc.lastCycle = mc.Clock()
	mc.lastTick = mc.lastCycle

	return mc
}

func (mc *MachineState) Reset() {
	for i := range mc.Memory {
		mc.Memory[i] = 0x00
	}

	for i := range mc.Registers {
		mc.Registers[i] = 0x00
	}

	for i := range mc.Stack {
		mc.Stack[i] = 0x0000
	}

	copy(mc.Memory[MEMSPACE_FONT:], fontset[:])

	mc.Program = MEMSPACE_USER
	mc.Index = 0
	mc.Pointer = 0
	mc.Delay = 0
	mc.Sound = 0
	mc.Waiting = false
	mc.WaitReg = 0
}

// Load resets the machine and copies a program image into memory
// starting at MEMSPACE_USER. Images larger than the program region are
// rejected before any machine state is touched.
func (mc *Machine) Load(reader io.Reader) error {
	program, err := io.ReadAll(reader)

	if err != nil {
		return &LoadError{Err: err}
	}

	if len(program) > PROGRAM_MAX {
		return &LoadError{Size: len(program)}
	}

	mc.State.Reset()
	copy(mc.State.Memory[MEMSPACE_USER:], program)

	return nil
}

// Cycle drives the two machine clocks from a single monotonic reading.
// The instruction clock and the timer clock fire independently; when
// more than one period has elapsed only a single step is taken, the
// excess is absorbed rather than caught up.
func (mc *Machine) Cycle() error {
	now := mc.Clock()

	if now.Sub(mc.lastCycle) >= CYCLE_PERIOD {
		mc.lastCycle = now

		if mc.State.Waiting {
			// A suspended Fx0A polls for its key on the instruction
			// clock; timer decay below is unaffected by the wait
			if key, ok := mc.Display.PollKey(); ok {
				mc.State.Registers[mc.State.WaitReg] = uint8(key)
				mc.State.Waiting = false
				mc.nextInstruction()
			}
		} else if err := mc.Step(); err != nil {
			return err
		}
	}

	if now.Sub(mc.lastTick) >= TIMER_PERIOD {
		mc.lastTick = now

		if mc.State.Delay != 0 {
			mc.State.Delay--
		}

		if mc.State.Sound != 0 {
			mc.Display.Buzz()
			mc.State.Sound--
		}
	}

	return nil
}

// Step fetches, decodes and executes exactly one instruction
func (mc *Machine) Step() error {
	inst, err := mc.fetch()

	if err != nil {
		return err
	}

	if mc.Trace && mc.Log != nil {
		mc.Log.Debug(
			"executing instruction",
			log.String("op", Disassemble(inst)),
			log.Hex("opcode", inst),
			log.Hex("pc", mc.State.Program),
			log.Hex("i", mc.State.Index),
			log.Uint8("sp", mc.State.Pointer),
		)
	}

	if err := mc.execute(inst); err != nil {
		return err
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return nil
}

// Composes the big-endian instruction word at the program counter
func (mc *Machine) fetch() (uint16, error) {
	if mc.State.Program > MEMSPACE_SIZE-2 {
		return 0, mc.fault(MemoryFault, 0, "program counter out of memory")
	}

	high := mc.State.Memory[mc.State.Program]
	low := mc.State.Memory[mc.State.Program+1]

	return uint16(high)<<8 | uint16(low), nil
}

func (mc *Machine) push(value uint16, inst uint16) error {
	if mc.State.Pointer >= STACK_DEPTH {
		return mc.fault(StackOverflow, inst, "call stack exhausted")
	}

	mc.State.Stack[mc.State.Pointer] = value
	mc.State.Pointer++

	return nil
}

func (mc *Machine) pop(inst uint16) (uint16, error) {
	if mc.State.Pointer == 0 {
		return 0, mc.fault(StackUnderflow, inst, "return with empty call stack")
	}

	mc.State.Pointer--
	value := mc.State.Stack[mc.State.Pointer]
	mc.State.Stack[mc.State.Pointer] = 0x0000

	return value, nil
}

func (mc *Machine) read(addr uint16) uint8 {
	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

func (mc *Machine) write(addr uint16, value uint8) {
	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) randByte() uint8 {
	return uint8(mc.rng.Intn(256))
}

// Skips the next instruction when condition holds
func (mc *Machine) skipIf(condition bool) {
	if condition {
		mc.nextInstruction()
	}
}

func (mc *Machine) nextInstruction() {
	mc.State.Program += 2
}

func (mc *Machine) unsupported(inst uint16) {
	if mc.Log != nil {
		mc.Log.Warn(
			"unsupported instruction",
			log.Hex("opcode", inst),
			log.Hex("pc", mc.State.Program),
		)
	}
}

func (mc *Machine) execute(inst uint16) error {
	switch encoding.Family(inst) {

	// CLS  |0x00E0             | Clear the display
	// RET  |0x00EE             | Return from subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SYS:
		switch inst {
		case 0x00E0:
			mc.Display.Clear()
		case 0x00EE:
			// The popped address is the call site; the shared advance
			// below moves past it
			addr, err := mc.pop(inst)

			if err != nil {
				return err
			}

			mc.State.Program = addr
		default:
			// 0nnn machine routines have no host to run on
			mc.unsupported(inst)
		}

	// JMP  |0x1|nnn            | Unconditional jump
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		mc.State.Program = encoding.Addr(inst)
		return nil

	// CALL |0x2|nnn            | Call subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_CALL:
		if err := mc.push(mc.State.Program, inst); err != nil {
			return err
		}

		mc.State.Program = encoding.Addr(inst)
		return nil

	// SKE  |0x3|x|nn           | Skip next if Vx == nn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SKE:
		vx := mc.State.Registers[encoding.Nibble(inst, 2)]
		mc.skipIf(vx == encoding.Imm(inst))

	// SKNE |0x4|x|nn           | Skip next if Vx != nn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SKNE:
		vx := mc.State.Registers[encoding.Nibble(inst, 2)]
		mc.skipIf(vx != encoding.Imm(inst))

	// SKRE |0x5|x|y|0          | Skip next if Vx == Vy
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SKRE:
		vx := mc.State.Registers[encoding.Nibble(inst, 2)]
		vy := mc.State.Registers[encoding.Nibble(inst, 3)]
		mc.skipIf(vx == vy)

	// LOAD |0x6|x|nn           | Vx = nn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_LOAD:
		mc.State.Registers[encoding.Nibble(inst, 2)] = encoding.Imm(inst)

	// ADD  |0x7|x|nn           | Vx += nn, no flag side effect
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_ADD:
		mc.State.Registers[encoding.Nibble(inst, 2)] += encoding.Imm(inst)

	// MATH |0x8|x|y|op         | Register arithmetic and bit ops
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_MATH:
		mc.executeMath(inst)

	// SKRNE|0x9|x|y|0          | Skip next if Vx != Vy
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_SKRNE:
		vx := mc.State.Registers[encoding.Nibble(inst, 2)]
		vy := mc.State.Registers[encoding.Nibble(inst, 3)]
		mc.skipIf(vx != vy)

	// LOADI|0xA|nnn            | I = nnn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_LOADI:
		mc.State.Index = encoding.Addr(inst)

	// JMPV0|0xB|nnn            | Jump to V0 + nnn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_JMPV0:
		mc.State.Program = uint16(mc.State.Registers[0]) + encoding.Addr(inst)
		return nil

	// RAND |0xC|x|nn           | Vx = random byte & nn
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_RAND:
		mc.State.Registers[encoding.Nibble(inst, 2)] =
			mc.randByte() & encoding.Imm(inst)

	// DRAW |0xD|x|y|n          | Draw n-row sprite at (Vx, Vy)
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_DRAW:
		if err := mc.executeDraw(inst); err != nil {
			return err
		}

	// SKP  |0xE|x|0x9E         | Skip next if key Vx pressed
	// SKNP |0xE|x|0xA1         | Skip next if key Vx not pressed
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_KEY:
		vx := mc.State.Registers[encoding.Nibble(inst, 2)]
		pressed := mc.Display.IsKeyPressed(Key(vx))

		switch encoding.Imm(inst) {
		case 0x9E:
			mc.skipIf(pressed)
		case 0xA1:
			mc.skipIf(!pressed)
		default:
			mc.unsupported(inst)
		}

	// MISC |0xF|x|op           | Timers, keys, memory transfers
	// ---- [ _ _ _ _ _ _ _ _ _ ]
	case OP_MISC:
		if err := mc.executeMisc(inst); err != nil {
			return err
		}

		if mc.State.Waiting {
			// Fx0A holds the program counter on the waiting slot until
			// Cycle delivers a key
			return nil
		}
	}

	mc.nextInstruction()

	return nil
}

// Executes the 0x8xy* arithmetic group. The op nibble selects the
// operation; only the wrapping forms and the shifts touch VF.
func (mc *Machine) executeMath(inst uint16) {
	x := encoding.Nibble(inst, 2)
	vy := mc.State.Registers[encoding.Nibble(inst, 3)]

	switch encoding.Nibble(inst, 4) {
	case 0x0: // Vx = Vy
		mc.State.Registers[x] = vy
	case 0x1: // Vx |= Vy
		mc.State.Registers[x] |= vy
	case 0x2: // Vx &= Vy
		mc.State.Registers[x] &= vy
	case 0x3: // Vx ^= Vy
		mc.State.Registers[x] ^= vy
	case 0x4: // Vx += Vy, VF = carry
		mc.State.Registers[x] = mc.wrappingAdd(mc.State.Registers[x], vy)
	case 0x5: // Vx -= Vy, VF = no borrow
		mc.State.Registers[x] = mc.wrappingSub(mc.State.Registers[x], vy)
	case 0x6: // VF = lsb(Vx), Vx >>= 1
		mc.State.Registers[REG_VF] = encoding.Lsb(mc.State.Registers[x])
		mc.State.Registers[x] >>= 1
	case 0x7: // Vx = Vy - Vx, VF = no borrow
		mc.State.Registers[x] = mc.wrappingSub(vy, mc.State.Registers[x])
	case 0xE: // VF = msb(Vx), Vx <<= 1
		mc.State.Registers[REG_VF] = encoding.Msb(mc.State.Registers[x])
		mc.State.Registers[x] <<= 1
	default:
		mc.unsupported(inst)
	}
}

// Executes Dxyn: XORs an n-row sprite read from memory at I onto the
// display at (Vx, Vy), setting VF when any set pixel is unset
func (mc *Machine) executeDraw(inst uint16) error {
	vx := int(mc.State.Registers[encoding.Nibble(inst, 2)])
	vy := int(mc.State.Registers[encoding.Nibble(inst, 3)])
	rows := uint16(encoding.Nibble(inst, 4))

	if mc.State.Index+rows > MEMSPACE_SIZE {
		return mc.fault(MemoryFault, inst, "sprite extends past end of memory")
	}

	mc.State.Registers[REG_VF] = 0

	for row := uint16(0); row < rows; row++ {
		line := mc.read(mc.State.Index + row)

		for col := uint(0); col < 8; col++ {
			if !encoding.Bit(line, col) {
				continue
			}

			if mc.Display.SetPixel(vx+int(col), vy+int(row), true) {
				mc.State.Registers[REG_VF] = 1
			}
		}
	}

	return nil
}

// Executes the 0xFx** group
func (mc *Machine) executeMisc(inst uint16) error {
	x := encoding.Nibble(inst, 2)

	switch encoding.Imm(inst) {
	case 0x07: // Vx = delay
		mc.State.Registers[x] = mc.State.Delay

	case 0x0A: // Vx = next key press
		mc.State.Waiting = true
		mc.State.WaitReg = x

	case 0x15: // delay = Vx
		mc.State.Delay = mc.State.Registers[x]

	case 0x18: // sound = Vx
		mc.State.Sound = mc.State.Registers[x]

	case 0x1E: // I += Vx, VF unaffected
		mc.State.Index += uint16(mc.State.Registers[x])

		if mc.State.Index >= MEMSPACE_SIZE {
			return mc.fault(MemoryFault, inst, "index register out of memory")
		}

	case 0x29: // I = font glyph address for digit Vx
		mc.State.Index = uint16(mc.State.Registers[x]) * FONT_GLYPH_SIZE

	case 0x33: // memory[I..I+2] = decimal digits of Vx
		if mc.State.Index > MEMSPACE_SIZE-3 {
			return mc.fault(MemoryFault, inst, "BCD write past end of memory")
		}

		vx := mc.State.Registers[x]

		mc.write(mc.State.Index, vx/100)
		mc.write(mc.State.Index+1, (vx/10)%10)
		mc.write(mc.State.Index+2, vx%10)

	case 0x55: // memory[I..I+x] = V0..Vx
		if mc.State.Index+uint16(x) >= MEMSPACE_SIZE {
			return mc.fault(MemoryFault, inst, "register dump past end of memory")
		}

		for i := uint8(0); i <= x; i++ {
			mc.write(mc.State.Index+uint16(i), mc.State.Registers[i])
		}

	case 0x65: // V0..Vx = memory[I..I+x]
		if mc.State.Index+uint16(x) >= MEMSPACE_SIZE {
			return mc.fault(MemoryFault, inst, "register load past end of memory")
		}

		for i := uint8(0); i <= x; i++ {
			mc.State.Registers[i] = mc.read(mc.State.Index + uint16(i))
		}

	default:
		mc.unsupported(inst)
	}

	return nil
}

// Computes the modulo-256 sum of a and b, setting VF to 1 iff the
// unwrapped sum exceeds 255
func (mc *Machine) wrappingAdd(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)

	if sum > 0xFF {
		mc.State.Registers[REG_VF] = 1
	} else {
		mc.State.Registers[REG_VF] = 0
	}

	return uint8(sum)
}

// Computes the modulo-256 difference a-b, setting VF to 1 iff no borrow
// occurs (a >= b)
func (mc *Machine) wrappingSub(a, b uint8) uint8 {
	if a >= b {
		mc.State.Registers[REG_VF] = 1
	} else {
		mc.State.Registers[REG_VF] = 0
	}

	return a - b
}
