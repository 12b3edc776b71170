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
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/lassandro/goc8/pkg/machine"
)

// Terminals deliver key presses but no releases, so a press counts as
// held for a short window afterwards
const terminalKeyHold = 150 * time.Millisecond

const terminalFrameRate = 60

var terminalKeymap = map[byte]machine.Key{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminal renders the framebuffer as ANSI half-block art and reads
// keys from a raw-mode input stream. The caller owns putting the
// terminal into raw mode; ESC or Ctrl-C on the input stream closes
// Done.
type Terminal struct {
	*Screen

	in     io.Reader
	out    io.Writer
	beeper Beeper

	mutex   sync.Mutex
	pressed [16]time.Time

	keys chan machine.Key
	done chan struct{}
	stop chan struct{}

	closeOnce sync.Once
	stopOnce  sync.Once
	running   bool
}

func NewTerminal(in io.Reader, out io.Writer, beeper Beeper) *Terminal {
	return &Terminal{
		Screen: NewScreen(),
		in:     in,
		out:    out,
		beeper: beeper,
		keys:   make(chan machine.Key, 16),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

// Start hides the cursor and spawns the input reader and the frame
// renderer
func (tm *Terminal) Start() {
	if tm.running {
		return
	}

	tm.running = true

	fmt.Fprint(tm.out, "\x1b[2J\x1b[?25l")

	go tm.readKeys()
	go tm.renderLoop()
}

// Stop ends rendering and restores the cursor
func (tm *Terminal) Stop() {
	tm.stopOnce.Do(func() {
		close(tm.stop)
		fmt.Fprint(tm.out, "\x1b[?25h\n")
	})

	tm.closeOnce.Do(func() { close(tm.done) })
}

// Done is closed when the user quits with ESC or Ctrl-C
func (tm *Terminal) Done() <-chan struct{} {
	return tm.done
}

func (tm *Terminal) IsKeyPressed(key machine.Key) bool {
	if key > 0xF {
		return false
	}

	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	return time.Now().Before(tm.pressed[key])
}

func (tm *Terminal) PollKey() (machine.Key, bool) {
	select {
	case key := <-tm.keys:
		return key, true
	default:
		return machine.KeyUnknown, false
	}
}

func (tm *Terminal) Buzz() {
	if tm.beeper != nil {
		tm.beeper.Buzz()
		return
	}

	fmt.Fprint(tm.out, "\a")
}

func (tm *Terminal) readKeys() {
	scratch := make([]byte, 1)

	for {
		n, err := tm.in.Read(scratch)

		if err != nil {
			tm.closeOnce.Do(func() { close(tm.done) })
			return
		}

		if n == 0 {
			continue
		}

		switch b := scratch[0]; b {
		case 0x03, 0x1b: // Ctrl-C, ESC
			tm.closeOnce.Do(func() { close(tm.done) })
			return
		default:
			key, ok := terminalKeymap[b]

			if !ok {
				continue
			}

			tm.mutex.Lock()
			tm.pressed[key] = time.Now().Add(terminalKeyHold)
			tm.mutex.Unlock()

			select {
			case tm.keys <- key:
			default:
			}
		}
	}
}

func (tm *Terminal) renderLoop() {
	ticker := time.NewTicker(time.Second / terminalFrameRate)
	defer ticker.Stop()

	var rendered uint64

	for {
		select {
		case <-tm.stop:
			return
		case <-tm.done:
			return
		case <-ticker.C:
			if version := tm.Version(); version != rendered {
				rendered = version
				tm.render()
			}
		}
	}
}

// Two pixel rows per text line using upper/lower half blocks
func (tm *Terminal) render() {
	snapshot := tm.Snapshot()

	var sb strings.Builder
	sb.WriteString("\x1b[H")

	for y := 0; y < ScreenHeight; y += 2 {
		for x := 0; x < ScreenWidth; x++ {
			upper := snapshot[y][x]
			lower := snapshot[y+1][x]

			switch {
			case upper && lower:
				sb.WriteRune('█')
			case upper:
				sb.WriteRune('▀')
			case lower:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}

		sb.WriteString("\r\n")
	}

	fmt.Fprint(tm.out, sb.String())
}
