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

package encoding_test

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/lassandro/goc8/pkg/encoding"
)

// Every 16-bit word is valid decoder input, so the field extractors can
// be checked exhaustively against their masking definitions.
func TestFields(t *testing.T) {
	for w := 0; w <= 0xFFFF; w++ {
		word := uint16(w)

		if have, want := encoding.Family(word), uint8(word>>12); have != want {
			t.Fatalf("Family(%#04x)\nwant:%#x\nhave:%#x", word, want, have)
		}

		if have, want := encoding.Addr(word), word&0x0FFF; have != want {
			t.Fatalf("Addr(%#04x)\nwant:%#04x\nhave:%#04x", word, want, have)
		}

		if have, want := encoding.Imm(word), uint8(word&0x00FF); have != want {
			t.Fatalf("Imm(%#04x)\nwant:%#02x\nhave:%#02x", word, want, have)
		}
	}
}

func TestNibble(t *testing.T) {
	word := uint16(0xABCD)

	for n, want := range map[uint]uint8{1: 0xA, 2: 0xB, 3: 0xC, 4: 0xD} {
		if have := encoding.Nibble(word, n); have != want {
			t.Errorf(
				"Nibble(%#04x, %d)\nwant:%#x\nhave:%#x",
				word, n, want, have,
			)
		}
	}

	if encoding.Nibble(word, 1) != encoding.Family(word) {
		t.Error("Nibble(w, 1) must match Family(w)")
	}
}

func TestBits(t *testing.T) {
	assert.Equal(t, uint8(1), encoding.Lsb(0x01))
	assert.Equal(t, uint8(0), encoding.Lsb(0xFE))
	assert.Equal(t, uint8(1), encoding.Msb(0x80))
	assert.Equal(t, uint8(0), encoding.Msb(0x7F))

	// 0b10110001: pixels 0, 2, 3 and 7 set
	for n, want := range []bool{true, false, true, true, false, false, false, true} {
		assert.Equal(t, want, encoding.Bit(0xB1, uint(n)))
	}
}

func TestDecodeHex(t *testing.T) {
	for _, test := range []struct {
		Input string
		Value uint16
	}{
		{"0xFFFF", 0xFFFF},
		{"xFFFF", 0xFFFF},
		{"0x200", 0x0200},
		{"x0A", 0x000A},
	} {
		value, err := encoding.DecodeHex(test.Input)
		assert.NoError(t, err)
		assert.Equal(t, test.Value, value)
	}

	for _, input := range []string{"", "FFFF", "0x10000", "yFF"} {
		if _, err := encoding.DecodeHex(input); err == nil {
			t.Errorf("DecodeHex(%q) expected an error", input)
		}
	}
}

func TestDecodeInt(t *testing.T) {
	for _, test := range []struct {
		Input string
		Value int16
	}{
		{"#123", 123},
		{"123", 123},
		{"-16", -16},
	} {
		value, err := encoding.DecodeInt(test.Input)
		assert.NoError(t, err)
		assert.Equal(t, test.Value, value)
	}
}
