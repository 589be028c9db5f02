package player

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	bitDepth   = 2 // 16-bit output
	tapSeconds = 2
)

// countingReader wraps the playback stream and tracks bytes handed to oto.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

// Player plays one audio file and mirrors the decoded PCM into a Tap.
type Player struct {
	file        *os.File
	decoder     audioDecoder
	counter     *countingReader
	otoPlayer   *oto.Player
	tap         *Tap
	bytesPerSec int64
	duration    time.Duration
	volume      float64
	paused      bool
	done        chan struct{}
	stopMon     chan struct{}
	mu          sync.Mutex
	closed      bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
	otoFormat    [2]int // sample rate, channels the context was opened with
)

// initOto opens the process-wide oto context. oto allows a single context,
// so every later call must ask for the same format.
func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoFormat = [2]int{sampleRate, channels}
		}
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if otoFormat != [2]int{sampleRate, channels} {
		return nil, fmt.Errorf("%w: audio device already open at %d Hz, %d channels",
			ErrUnsupportedFormat, otoFormat[0], otoFormat[1])
	}
	return globalOtoCtx, nil
}

// New opens path, starts playback and returns the player.
func New(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := initOto(dec.SampleRate(), dec.ChannelCount())
	if err != nil {
		f.Close()
		return nil, err
	}

	p := newPlayer(f, dec)
	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor()

	return p, nil
}

// newPlayer wires the decode stream through the tap and the byte counter
// without touching the audio device.
func newPlayer(f *os.File, dec audioDecoder) *Player {
	channels := dec.ChannelCount()
	tap := NewTap(dec.SampleRate()*tapSeconds, channels)
	bytesPerSec := int64(dec.SampleRate() * channels * bitDepth)

	var dur time.Duration
	if bytesPerSec > 0 {
		dur = time.Duration(float64(dec.Length()) / float64(bytesPerSec) * float64(time.Second))
	}

	return &Player{
		file:        f,
		decoder:     dec,
		counter:     &countingReader{reader: io.TeeReader(dec, tap)},
		tap:         tap,
		bytesPerSec: bytesPerSec,
		duration:    dur,
		volume:      0.8,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
	}
}

func (p *Player) monitor() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		finished := !p.paused && p.counter.Pos() >= p.decoder.Length() &&
			p.otoPlayer != nil && !p.otoPlayer.IsPlaying()
		p.mu.Unlock()

		if finished {
			close(p.done)
			return
		}
	}
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Tap returns the buffer the decoded audio is mirrored into.
func (p *Player) Tap() *Tap {
	return p.tap
}

// SampleRate returns the sample rate of the playing file.
func (p *Player) SampleRate() int {
	return p.decoder.SampleRate()
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.paused {
		p.otoPlayer.Play()
		p.paused = false
	} else {
		p.otoPlayer.Pause()
		p.paused = true
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	if p.bytesPerSec == 0 {
		return 0
	}
	secs := float64(p.counter.Pos()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = min(max(v, 0), 1)
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close stops playback and releases the file. Safe to call more than once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.stopMon)
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.tap.Clear()
	if p.file != nil {
		p.file.Close()
	}
}
