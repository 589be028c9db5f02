package player

import (
	"encoding/binary"
	"sync"
)

// Tap is a thread-safe ring of mono samples in [-1, 1]. It implements
// io.Writer over interleaved 16-bit little-endian PCM so it can sit behind
// an io.TeeReader on the playback stream; channels are averaged.
type Tap struct {
	mu       sync.Mutex
	buf      []float32
	w        int // write position
	len      int // current fill level
	channels int
	partial  []byte // bytes of an incomplete sample frame
}

// NewTap creates a tap holding up to size mono samples of a stream with the
// given channel count.
func NewTap(size, channels int) *Tap {
	return &Tap{
		buf:      make([]float32, max(size, 1)),
		channels: max(channels, 1),
	}
}

// Write appends PCM bytes, overwriting the oldest samples when full. It never
// fails.
func (t *Tap) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	frameSize := t.channels * 2
	data := p
	if len(t.partial) > 0 {
		data = append(t.partial, p...)
		t.partial = nil
	}

	whole := len(data) - len(data)%frameSize
	for off := 0; off < whole; off += frameSize {
		var sum float32
		for ch := range t.channels {
			sum += float32(int16(binary.LittleEndian.Uint16(data[off+ch*2:]))) / 32768
		}
		t.buf[t.w] = sum / float32(t.channels)
		t.w = (t.w + 1) % len(t.buf)
	}
	t.len = min(t.len+whole/frameSize, len(t.buf))

	if whole < len(data) {
		t.partial = append([]byte(nil), data[whole:]...)
	}
	return len(p), nil
}

// Latest returns up to n of the most recent samples, oldest first.
func (t *Tap) Latest(n int) []float32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	n = min(n, t.len)
	if n <= 0 {
		return nil
	}

	out := make([]float32, n)
	size := len(t.buf)
	start := (t.w - n + size) % size
	for i := range out {
		out[i] = t.buf[(start+i)%size]
	}
	return out
}

// Clear drops everything buffered.
func (t *Tap) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = 0
	t.len = 0
	t.partial = nil
}
