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
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	buzzerSampleRate = 44100
	buzzerTone       = 440.0

	// Each Buzz request arrives on a 60Hz timer tick while the sound
	// counter is nonzero; holding the tone slightly longer than one
	// tick keeps consecutive requests gapless
	buzzerHold = 25 * time.Millisecond
)

// Buzzer renders the audible alert as a square wave through an oto
// player. The player pulls samples continuously; the stream is silence
// whenever no Buzz deadline is active.
type Buzzer struct {
	ctx      *oto.Context
	player   *oto.Player
	deadline atomic.Int64
	phase    float64
	volume   float64
}

func NewBuzzer() (*Buzzer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   buzzerSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)

	if err != nil {
		return nil, err
	}

	<-ready

	bz := &Buzzer{ctx: ctx, volume: 0.25}
	bz.player = ctx.NewPlayer(bz)
	bz.player.Play()

	return bz, nil
}

// Buzz extends the active tone deadline
func (bz *Buzzer) Buzz() {
	bz.deadline.Store(time.Now().Add(buzzerHold).UnixNano())
}

// Read streams float32 square-wave samples while the deadline is in the
// future and silence otherwise
func (bz *Buzzer) Read(p []byte) (int, error) {
	active := time.Now().UnixNano() < bz.deadline.Load()
	step := buzzerTone / buzzerSampleRate

	for i := 0; i+4 <= len(p); i += 4 {
		var sample float32

		if active {
			if bz.phase < 0.5 {
				sample = float32(bz.volume)
			} else {
				sample = float32(-bz.volume)
			}
		}

		bz.phase += step
		bz.phase = math.Mod(bz.phase, 1.0)

		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(sample))
	}

	return len(p) - len(p)%4, nil
}

func (bz *Buzzer) Close() error {
	if bz.player != nil {
		if err := bz.player.Close(); err != nil {
			return err
		}

		bz.player = nil
	}

	return nil
}
