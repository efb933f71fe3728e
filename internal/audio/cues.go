// Package audio synthesizes the short feedback cues played when a pair is
// matched or missed.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Output receives finished cue streamers. In the game this is speaker.Play.
type Output func(beep.Streamer)

// CuePlayer builds the success and failure cues and hands them to an output.
type CuePlayer struct {
	sr     beep.SampleRate
	out    Output
	volume float64 // log2 gain applied to every cue
}

// NewCuePlayer returns a player writing to out at the package sample rate.
func NewCuePlayer(out Output) *CuePlayer {
	return &CuePlayer{sr: sampleRate, out: out, volume: -1}
}

// NewSpeakerCuePlayer initializes the speaker and plays cues through it.
func NewSpeakerCuePlayer() (*CuePlayer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return NewCuePlayer(func(s beep.Streamer) { speaker.Play(s) }), nil
}

// SampleRate is the rate cues are rendered at.
func (p *CuePlayer) SampleRate() beep.SampleRate {
	return p.sr
}

// Success plays a rising two-note chime.
func (p *CuePlayer) Success() {
	if p.out != nil {
		p.out(p.SuccessCue())
	}
}

// Failure plays a falling buzz.
func (p *CuePlayer) Failure() {
	if p.out != nil {
		p.out(p.FailureCue())
	}
}

func (p *CuePlayer) SuccessCue() beep.Streamer {
	return p.gain(beep.Seq(
		p.tone(660, 80*time.Millisecond, 0),
		p.tone(880, 120*time.Millisecond, 0),
	))
}

func (p *CuePlayer) FailureCue() beep.Streamer {
	return p.gain(beep.Seq(
		p.tone(220, 90*time.Millisecond, 0.35),
		beep.Silence(p.sr.N(30*time.Millisecond)),
		p.tone(165, 150*time.Millisecond, 0.35),
	))
}

func (p *CuePlayer) gain(s beep.Streamer) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: p.volume}
}

func (p *CuePlayer) tone(freq float64, d time.Duration, harmonics float64) beep.Streamer {
	n := p.sr.N(d)
	return beep.Take(n, &ToneGenerator{sr: p.sr, freq: freq, length: n, harmonics: harmonics})
}

// ToneGenerator is a sine with optional odd harmonics and a short attack and
// linear release over length samples.
type ToneGenerator struct {
	sr        beep.SampleRate
	freq      float64
	harmonics float64
	length    int
	pos       int
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	attack := g.sr.N(5 * time.Millisecond)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := math.Sin(2 * math.Pi * g.freq * t)
		if g.harmonics > 0 {
			sample += g.harmonics * math.Sin(2*math.Pi*g.freq*3*t)
			sample /= 1 + g.harmonics
		}

		env := 1.0
		if attack > 0 && g.pos < attack {
			env = float64(g.pos) / float64(attack)
		}
		if g.length > 0 {
			env *= math.Max(0, 1-float64(g.pos)/float64(g.length))
		}
		sample *= 0.4 * env

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// Silent satisfies the cue interface without producing sound.
type Silent struct{}

func (Silent) Success() {}
func (Silent) Failure() {}
