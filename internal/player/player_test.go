package player

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type stubDecoder struct {
	data       []byte
	pos        int
	sampleRate int
	channels   int
}

func (d *stubDecoder) Read(p []byte) (int, error) {
	if d.pos >= len(d.data) {
		return 0, io.EOF
	}
	n := copy(p, d.data[d.pos:])
	d.pos += n
	return n, nil
}

func (d *stubDecoder) Seek(offset int64, whence int) (int64, error) {
	d.pos = int(offset)
	return offset, nil
}

func (d *stubDecoder) Length() int64     { return int64(len(d.data)) }
func (d *stubDecoder) SampleRate() int   { return d.sampleRate }
func (d *stubDecoder) ChannelCount() int { return d.channels }

func TestNewPlayerDuration(t *testing.T) {
	dec := &stubDecoder{data: make([]byte, 8000*2*2*3), sampleRate: 8000, channels: 2}
	p := newPlayer(nil, dec)
	if p.Duration() != 3*time.Second {
		t.Fatalf("expected 3s duration, got %v", p.Duration())
	}
	if p.SampleRate() != 8000 {
		t.Fatalf("expected sample rate 8000, got %d", p.SampleRate())
	}
}

func TestPlaybackStreamFeedsTap(t *testing.T) {
	dec := &stubDecoder{data: pcm(100, 300, 500, 700), sampleRate: 8000, channels: 2}
	p := newPlayer(nil, dec)

	buf := make([]byte, 8)
	if _, err := io.ReadFull(p.counter, buf); err != nil {
		t.Fatal(err)
	}

	if got := p.counter.Pos(); got != 8 {
		t.Fatalf("expected counter at 8 bytes, got %d", got)
	}
	got := p.Tap().Latest(10)
	if len(got) != 2 || got[0] != 200.0/32768 || got[1] != 600.0/32768 {
		t.Fatalf("tap = %v, want mono mix of the two frames", got)
	}
	if d := p.Position() - 250*time.Microsecond; d < -time.Microsecond || d > time.Microsecond {
		t.Fatalf("expected position near 250µs, got %v", p.Position())
	}
}

func TestSetVolumeClamps(t *testing.T) {
	p := newPlayer(nil, &stubDecoder{sampleRate: 8000, channels: 1})
	p.SetVolume(1.7)
	if p.Volume() != 1 {
		t.Fatalf("expected volume clamped to 1, got %v", p.Volume())
	}
	p.AdjustVolume(-3)
	if p.Volume() != 0 {
		t.Fatalf("expected volume clamped to 0, got %v", p.Volume())
	}
}

func TestPlayerCloseIsIdempotent(t *testing.T) {
	p := newPlayer(nil, &stubDecoder{sampleRate: 8000, channels: 1})
	p.Close()
	p.Close()
	select {
	case <-p.stopMon:
	default:
		t.Fatal("expected monitor stop channel to be closed")
	}
}

func TestReadMetadataFallsBackToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Night Drive.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := ReadMetadata(path)
	if m.Title != "Night Drive" {
		t.Fatalf("expected title from file name, got %q", m.Title)
	}
	if m.Subtitle() != "" {
		t.Fatalf("expected empty subtitle, got %q", m.Subtitle())
	}
}

func TestMetadataSubtitle(t *testing.T) {
	tests := []struct {
		m    Metadata
		want string
	}{
		{Metadata{Artist: "A", Album: "B"}, "A - B"},
		{Metadata{Artist: "A"}, "A"},
		{Metadata{Album: "B"}, "B"},
	}
	for _, tt := range tests {
		if got := tt.m.Subtitle(); got != tt.want {
			t.Errorf("Subtitle(%+v) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestSetVorbisComments(t *testing.T) {
	var m Metadata
	m.setVorbis("title", " Song ")
	m.setVorbis("ARTIST", "Band")
	m.setVorbis("Artist", "Other")
	m.setVorbis("ALBUM", "")
	m.setVorbis("GENRE", "Rock")

	want := Metadata{Title: "Song", Artist: "Band"}
	if m != want {
		t.Fatalf("metadata = %+v, want %+v", m, want)
	}
}

func TestReadMetadataBrokenFLACFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Broken Track.flac")
	if err := os.WriteFile(path, []byte("not flac"), 0o644); err != nil {
		t.Fatal(err)
	}
	if m := ReadMetadata(path); m.Title != "Broken Track" {
		t.Fatalf("Title = %q, want file name", m.Title)
	}
}
