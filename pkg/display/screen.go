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
)

const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Screen is the shared 64x32 monochrome framebuffer behind every
// backend. The machine mutates it from its execution goroutine while a
// backend renders it from another, so access is guarded.
type Screen struct {
	mutex   sync.RWMutex
	pixels  [ScreenHeight][ScreenWidth]bool
	version uint64
}

func NewScreen() *Screen {
	return &Screen{}
}

// Clear blanks the framebuffer
func (s *Screen) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pixels = [ScreenHeight][ScreenWidth]bool{}
	s.version++
}

// SetPixel XORs the pixel at (x, y) with value, wrapping coordinates
// modulo the screen dimensions. Returns true iff the pixel transitioned
// from set to unset.
func (s *Screen) SetPixel(x, y int, value bool) bool {
	x = ((x % ScreenWidth) + ScreenWidth) % ScreenWidth
	y = ((y % ScreenHeight) + ScreenHeight) % ScreenHeight

	s.mutex.Lock()
	defer s.mutex.Unlock()

	old := s.pixels[y][x]
	s.pixels[y][x] = old != value
	s.version++

	return old && !s.pixels[y][x]
}

// Pixel reports the state of a single pixel without wrapping
func (s *Screen) Pixel(x, y int) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.pixels[y][x]
}

// Snapshot copies the framebuffer for rendering
func (s *Screen) Snapshot() [ScreenHeight][ScreenWidth]bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.pixels
}

// Version increments on every mutation; renderers use it to skip
// redrawing unchanged frames
func (s *Screen) Version() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.version
}
