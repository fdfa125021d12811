package terminal

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/hoshinonyaruko/shake-in-im/structs"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays short effects for growth and game over.
type Sound struct {
	ready bool
}

// NewSound initialises the speaker. On failure the game runs silent.
func NewSound() (*Sound, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return &Sound{}, err
	}
	return &Sound{ready: true}, nil
}

// React plays whatever effect the change from prev to next calls for.
func (s *Sound) React(prev, next structs.View) {
	if s == nil || !s.ready {
		return
	}
	ate, died := soundEvents(prev, next)
	if ate {
		speaker.Play(beep.Take(sampleRate.N(80*time.Millisecond), newTone(sampleRate, 880, 0.25)))
	}
	if died {
		speaker.Play(beep.Take(sampleRate.N(400*time.Millisecond), newTone(sampleRate, 110, 0.3)))
	}
}

func (s *Sound) Close() {
	if s != nil && s.ready {
		speaker.Close()
	}
}

func soundEvents(prev, next structs.View) (ate, died bool) {
	ate = next.Score > prev.Score
	died = prev.Status != structs.Over && next.Status == structs.Over && !next.Cleared
	return ate, died
}

// tone is a sine with two harmonics and a short attack.
type tone struct {
	sr   beep.SampleRate
	freq float64
	amp  float64
	pos  int
}

func newTone(sr beep.SampleRate, freq, amp float64) *tone {
	return &tone{sr: sr, freq: freq, amp: amp}
}

func (g *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.6 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.3 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.1 * math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.005, 1.0)
		sample *= envelope * g.amp

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *tone) Err() error {
	return nil
}
