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
	"sync"

	"github.com/lassandro/goc8/pkg/machine"
)

// Headless is a display without a window: the framebuffer is
// inspectable, key presses are scripted, and buzzes are counted. It
// backs the -video headless mode and the test suites.
type Headless struct {
	*Screen

	mutex   sync.Mutex
	pressed [16]bool
	queue   []machine.Key
	buzzes  int
}

func NewHeadless() *Headless {
	return &Headless{Screen: NewScreen()}
}

// PressKey marks a key held down and queues it for a pending key-wait
func (h *Headless) PressKey(key machine.Key) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.pressed[key] = true
	h.queue = append(h.queue, key)
}

// ReleaseKey clears a key's held state
func (h *Headless) ReleaseKey(key machine.Key) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.pressed[key] = false
}

func (h *Headless) IsKeyPressed(key machine.Key) bool {
	// Programs can ask about any register value; only 0x0-0xF name keys
	if key > 0xF {
		return false
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.pressed[key]
}

func (h *Headless) PollKey() (machine.Key, bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if len(h.queue) == 0 {
		return machine.KeyUnknown, false
	}

	key := h.queue[0]
	h.queue = h.queue[1:]

	return key, true
}

func (h *Headless) Buzz() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.buzzes++
}

// Buzzes reports how many audio triggers the machine has requested
func (h *Headless) Buzzes() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.buzzes
}
