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
	"fmt"

	"github.com/lassandro/goc8/pkg/encoding"
)

// Disassemble renders an instruction word as a one-line mnemonic for
// trace output and the debugger. Unrecognized words render as a raw
// .word directive.
func Disassemble(inst uint16) string {
	x := encoding.Nibble(inst, 2)
	y := encoding.Nibble(inst, 3)
	n := encoding.Nibble(inst, 4)
	nn := encoding.Imm(inst)
	nnn := encoding.Addr(inst)

	switch encoding.Family(inst) {
	case OP_SYS:
		switch inst {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS %#03x", nnn)
	case OP_JMP:
		return fmt.Sprintf("JMP %#03x", nnn)
	case OP_CALL:
		return fmt.Sprintf("CALL %#03x", nnn)
	case OP_SKE:
		return fmt.Sprintf("SKE V%X, %#02x", x, nn)
	case OP_SKNE:
		return fmt.Sprintf("SKNE V%X, %#02x", x, nn)
	case OP_SKRE:
		return fmt.Sprintf("SKRE V%X, V%X", x, y)
	case OP_LOAD:
		return fmt.Sprintf("LOAD V%X, %#02x", x, nn)
	case OP_ADD:
		return fmt.Sprintf("ADD V%X, %#02x", x, nn)
	case OP_MATH:
		switch n {
		case 0x0:
			return fmt.Sprintf("MOVE V%X, V%X", x, y)
		case 0x1:
			return fmt.Sprintf("OR V%X, V%X", x, y)
		case 0x2:
			return fmt.Sprintf("AND V%X, V%X", x, y)
		case 0x3:
			return fmt.Sprintf("XOR V%X, V%X", x, y)
		case 0x4:
			return fmt.Sprintf("ADDR V%X, V%X", x, y)
		case 0x5:
			return fmt.Sprintf("SUB V%X, V%X", x, y)
		case 0x6:
			return fmt.Sprintf("SHR V%X", x)
		case 0x7:
			return fmt.Sprintf("RSUB V%X, V%X", x, y)
		case 0xE:
			return fmt.Sprintf("SHL V%X", x)
		}
	case OP_SKRNE:
		return fmt.Sprintf("SKRNE V%X, V%X", x, y)
	case OP_LOADI:
		return fmt.Sprintf("LOADI %#03x", nnn)
	case OP_JMPV0:
		return fmt.Sprintf("JMPV0 %#03x", nnn)
	case OP_RAND:
		return fmt.Sprintf("RAND V%X, %#02x", x, nn)
	case OP_DRAW:
		return fmt.Sprintf("DRAW V%X, V%X, %d", x, y, n)
	case OP_KEY:
		switch nn {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case OP_MISC:
		switch nn {
		case 0x07:
			return fmt.Sprintf("MOVED V%X", x)
		case 0x0A:
			return fmt.Sprintf("KEYD V%X", x)
		case 0x15:
			return fmt.Sprintf("LOADD V%X", x)
		case 0x18:
			return fmt.Sprintf("LOADS V%X", x)
		case 0x1E:
			return fmt.Sprintf("ADDI V%X", x)
		case 0x29:
			return fmt.Sprintf("LDSPR V%X", x)
		case 0x33:
			return fmt.Sprintf("BCD V%X", x)
		case 0x55:
			return fmt.Sprintf("STOR V%X", x)
		case 0x65:
			return fmt.Sprintf("READ V%X", x)
		}
	}

	return fmt.Sprintf(".word %#04x", inst)
}
