package player

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func pcm(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestTapAveragesChannels(t *testing.T) {
	tap := NewTap(8, 2)
	tap.Write(pcm(16384, 0, -16384, -16384))

	got := tap.Latest(8)
	want := []float32{0.25, -0.5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Latest = %v, want %v", got, want)
	}
}

func TestTapKeepsNewestWhenFull(t *testing.T) {
	tap := NewTap(3, 1)
	tap.Write(pcm(1, 2, 3, 4, 5))

	got := tap.Latest(10)
	want := []float32{3.0 / 32768, 4.0 / 32768, 5.0 / 32768}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Latest = %v, want %v", got, want)
	}
	if got := tap.Latest(1); got[0] != 5.0/32768 {
		t.Fatalf("Latest(1) = %v, want newest sample", got)
	}
}

func TestTapJoinsSplitFrames(t *testing.T) {
	tap := NewTap(4, 2)
	data := pcm(32767, 32767, 0, 0)

	n, err := tap.Write(data[:3])
	if n != 3 || err != nil {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if got := tap.Latest(4); got != nil {
		t.Fatalf("expected nothing before the frame completes, got %v", got)
	}

	tap.Write(data[3:])
	if got := tap.Latest(4); len(got) != 2 {
		t.Fatalf("expected 2 samples after completing the frames, got %v", got)
	}
}

func TestTapClear(t *testing.T) {
	tap := NewTap(4, 1)
	tap.Write(pcm(1, 2))
	tap.Clear()
	if got := tap.Latest(4); got != nil {
		t.Fatalf("expected empty tap after Clear, got %v", got)
	}
}
