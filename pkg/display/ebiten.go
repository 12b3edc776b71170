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
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lassandro/goc8/pkg/machine"
)

// Beeper produces the audible alert on behalf of a display backend. A
// nil Beeper mutes the machine.
type Beeper interface {
	Buzz()
}

// Keypad rows 1|2|3|C, 4|5|6|D, 7|8|9|E, A|0|B|F mapped onto the left
// block of a QWERTY keyboard
var ebitenKeymap = map[ebiten.Key]machine.Key{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

// Ebiten is the windowed display backend. The machine runs on its own
// goroutine and touches only the embedded Screen, the pressed-key
// state and the key queue; ebiten's input API stays confined to the
// Update callback on the render goroutine.
type Ebiten struct {
	*Screen

	beeper Beeper
	title  string
	scale  int

	frame  *ebiten.Image
	pixels []byte

	pressed [16]atomic.Bool
	keys    chan machine.Key

	done      chan struct{}
	closeOnce sync.Once
	running   atomic.Bool
}

func NewEbiten(title string, scale int, beeper Beeper) *Ebiten {
	return &Ebiten{
		Screen: NewScreen(),
		beeper: beeper,
		title:  title,
		scale:  scale,
		pixels: make([]byte, ScreenWidth*ScreenHeight*4),
		keys:   make(chan machine.Key, 16),
		done:   make(chan struct{}),
	}
}

// Start opens the window and runs the render loop on its own goroutine.
// Done is closed once the loop ends, normally because the user closed
// the window.
func (eb *Ebiten) Start() {
	// Stop reads this flag from the host goroutine while Update reads
	// it on the render goroutine
	if !eb.running.CompareAndSwap(false, true) {
		return
	}

	ebiten.SetWindowSize(ScreenWidth*eb.scale, ScreenHeight*eb.scale)
	ebiten.SetWindowTitle(eb.title)

	go func() {
		defer eb.closeOnce.Do(func() { close(eb.done) })

		_ = ebiten.RunGame(eb)
	}()
}

func (eb *Ebiten) Done() <-chan struct{} {
	return eb.done
}

func (eb *Ebiten) IsKeyPressed(key machine.Key) bool {
	if key > 0xF {
		return false
	}

	return eb.pressed[key].Load()
}

func (eb *Ebiten) PollKey() (machine.Key, bool) {
	select {
	case key := <-eb.keys:
		return key, true
	default:
		return machine.KeyUnknown, false
	}
}

func (eb *Ebiten) Buzz() {
	if eb.beeper != nil {
		eb.beeper.Buzz()
	}
}

func (eb *Ebiten) Update() error {
	if ebiten.IsWindowBeingClosed() || !eb.running.Load() {
		return ebiten.Termination
	}

	for physical, logical := range ebitenKeymap {
		eb.pressed[logical].Store(ebiten.IsKeyPressed(physical))

		if inpututil.IsKeyJustPressed(physical) {
			select {
			case eb.keys <- logical:
			default:
				// A full queue means nobody is waiting; drop it
			}
		}
	}

	return nil
}

func (eb *Ebiten) Draw(screen *ebiten.Image) {
	if eb.frame == nil {
		eb.frame = ebiten.NewImage(ScreenWidth, ScreenHeight)
	}

	snapshot := eb.Snapshot()

	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			offset := (y*ScreenWidth + x) * 4

			var value byte
			if snapshot[y][x] {
				value = 0xFF
			}

			eb.pixels[offset] = value
			eb.pixels[offset+1] = value
			eb.pixels[offset+2] = value
			eb.pixels[offset+3] = 0xFF
		}
	}

	eb.frame.WritePixels(eb.pixels)
	screen.DrawImage(eb.frame, nil)
}

// Layout renders at native resolution and lets ebiten scale the result
// to the window
func (eb *Ebiten) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func (eb *Ebiten) Stop() {
	eb.running.Store(false)
}
