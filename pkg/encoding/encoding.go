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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, 123
func DecodeInt(s string) (int16, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return int16(result), nil
}

// Extracts the instruction family (the topmost nibble) of a word
func Family(word uint16) uint8 {
	return uint8(word >> 12)
}

// Extracts the nth nibble of a word, counting from the most significant
//
// Given 0xABCD: n=1 -> 0xA, n=2 -> 0xB, n=3 -> 0xC, n=4 -> 0xD
func Nibble(word uint16, n uint) uint8 {
	return uint8((word >> (4 * (4 - n))) & 0xF)
}

// Extracts the bottom 12 bits of a word (an address operand)
func Addr(word uint16) uint16 {
	return word & 0x0FFF
}

// Extracts the bottom 8 bits of a word (an immediate operand)
func Imm(word uint16) uint8 {
	return uint8(word & 0x00FF)
}

// Extracts the least significant bit of a byte
func Lsb(value uint8) uint8 {
	return value & 0x1
}

// Extracts the most significant bit of a byte
func Msb(value uint8) uint8 {
	return value >> 7
}

// Treats a byte as a row of eight pixels and reports whether the nth
// pixel is set, where n=0 is the most significant bit
func Bit(value uint8, n uint) bool {
	return (value>>(7-n))&0x1 == 1
}
