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

package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"

	"github.com/lassandro/goc8/pkg/machine"
)

type testBeeper struct {
	buzzes int
}

func (b *testBeeper) Buzz() {
	b.buzzes++
}

func waitDone(t *testing.T, tm *Terminal) {
	t.Helper()

	select {
	case <-tm.Done():
	case <-time.After(time.Second):
		t.Fatal("input reader never closed Done")
	}
}

func TestTerminalReadKeys(t *testing.T) {
	var out bytes.Buffer

	// 'w' is keypad 0x5; the reader exits on EOF
	tm := NewTerminal(strings.NewReader("w"), &out, nil)

	go tm.readKeys()
	waitDone(t, tm)

	assert.True(t, tm.IsKeyPressed(0x5))
	assert.False(t, tm.IsKeyPressed(0x4))

	key, ok := tm.PollKey()
	assert.True(t, ok)
	assert.Equal(t, 0x5, int(key))

	_, ok = tm.PollKey()
	assert.False(t, ok)
}

func TestTerminalKeyDecay(t *testing.T) {
	tm := NewTerminal(strings.NewReader(""), &bytes.Buffer{}, nil)

	// A press without a matching release counts as held only for the
	// hold window
	tm.pressed[0x7] = time.Now().Add(terminalKeyHold)
	assert.True(t, tm.IsKeyPressed(0x7))

	tm.pressed[0x7] = time.Now().Add(-time.Millisecond)
	assert.False(t, tm.IsKeyPressed(0x7))

	assert.False(t, tm.IsKeyPressed(0xFF))
}

func TestTerminalQuitKeys(t *testing.T) {
	for _, input := range []string{"\x1b", "\x03"} {
		tm := NewTerminal(strings.NewReader(input), &bytes.Buffer{}, nil)

		go tm.readKeys()
		waitDone(t, tm)
	}
}

func TestTerminalKeymap(t *testing.T) {
	assert.Equal(t, 16, len(terminalKeymap))

	var seen [16]bool

	for _, key := range terminalKeymap {
		assert.False(t, seen[key], "keypad values must be unique")
		seen[key] = true
	}
}

func TestTerminalRender(t *testing.T) {
	var out bytes.Buffer

	tm := NewTerminal(strings.NewReader(""), &out, nil)

	// Column zero: upper half only, both halves, lower half only
	tm.SetPixel(0, 0, true)
	tm.SetPixel(1, 0, true)
	tm.SetPixel(1, 1, true)
	tm.SetPixel(2, 1, true)

	tm.render()

	frame := strings.TrimPrefix(out.String(), "\x1b[H")
	lines := strings.Split(frame, "\r\n")

	assert.Equal(t, ScreenHeight/2+1, len(lines))

	runes := []rune(lines[0])
	assert.Equal(t, ScreenWidth, len(runes))
	assert.Equal(t, "▀", string(runes[0]))
	assert.Equal(t, "█", string(runes[1]))
	assert.Equal(t, "▄", string(runes[2]))
	assert.Equal(t, " ", string(runes[3]))
}

func TestTerminalBuzz(t *testing.T) {
	var out bytes.Buffer

	// Without a beeper the terminal bell rings instead
	tm := NewTerminal(strings.NewReader(""), &out, nil)
	tm.Buzz()
	assert.Equal(t, "\a", out.String())

	beeper := &testBeeper{}
	tm = NewTerminal(strings.NewReader(""), &out, beeper)

	tm.Buzz()
	tm.Buzz()
	assert.Equal(t, 2, beeper.buzzes)
}

var _ machine.Display = (*Terminal)(nil)
var _ machine.Display = (*Ebiten)(nil)
var _ machine.Display = (*Headless)(nil)
