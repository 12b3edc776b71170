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

import "time"

const (
	MEMSPACE_SIZE uint16 = 0x1000
	MEMSPACE_FONT uint16 = 0x0000
	MEMSPACE_USER uint16 = 0x0200

	// Largest program that fits between MEMSPACE_USER and the end of
	// memory (3584 bytes)
	PROGRAM_MAX = int(MEMSPACE_SIZE - MEMSPACE_USER)
)

const (
	REGISTER_COUNT = 16
	STACK_DEPTH    = 16

	// VF doubles as the carry/borrow/collision flag register
	REG_VF = 0xF
)

// Each font glyph is five bytes tall, packed consecutively from
// MEMSPACE_FONT so that glyph n begins at n*FONT_GLYPH_SIZE
const FONT_GLYPH_SIZE = 5

const (
	// Instruction clock, approx 500Hz
	CYCLE_PERIOD = 2 * time.Millisecond

	// Delay/sound decay clock, approx 60Hz
	TIMER_PERIOD = 16666 * time.Microsecond
)

const (
	OP_SYS    uint8 = 0x0
	OP_JMP    uint8 = 0x1
	OP_CALL   uint8 = 0x2
	OP_SKE    uint8 = 0x3
	OP_SKNE   uint8 = 0x4
	OP_SKRE   uint8 = 0x5
	OP_LOAD   uint8 = 0x6
	OP_ADD    uint8 = 0x7
	OP_MATH   uint8 = 0x8
	OP_SKRNE  uint8 = 0x9
	OP_LOADI  uint8 = 0xA
	OP_JMPV0  uint8 = 0xB
	OP_RAND   uint8 = 0xC
	OP_DRAW   uint8 = 0xD
	OP_KEY    uint8 = 0xE
	OP_MISC   uint8 = 0xF
)

// Font sprites for the hexadecimal digits 0-F, written to the start of
// memory at construction and never overwritten by a loaded program
var fontset = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
