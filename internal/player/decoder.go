package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder produces interleaved 16-bit little-endian PCM. Positions and
// lengths are in output bytes.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// pcmState is the bookkeeping shared by the converting decoders: converted
// bytes not yet handed out, the output position and the output length.
type pcmState struct {
	pending    []byte
	pos        int64
	totalBytes int64
	sampleRate int
	channels   int
}

func (s *pcmState) Length() int64     { return s.totalBytes }
func (s *pcmState) SampleRate() int   { return s.sampleRate }
func (s *pcmState) ChannelCount() int { return s.channels }

// drain copies pending bytes into p.
func (s *pcmState) drain(p []byte) int {
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	s.pos += int64(n)
	return n
}

// emit hands out freshly converted bytes, keeping what does not fit.
func (s *pcmState) emit(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		s.pending = raw[n:]
	}
	s.pos += int64(n)
	return n
}

// target resolves a Seek request to a clamped output position and the
// sample frame it falls on.
func (s *pcmState) target(offset int64, whence int) (pos, frame int64) {
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = s.totalBytes + offset
	}
	pos = clampOffset(pos, s.totalBytes)
	frameSize := int64(max(s.channels, 1)) * 2
	return pos, pos / frameSize
}

func (s *pcmState) moved(pos int64) {
	s.pending = nil
	s.pos = pos
}

func clampOffset(pos, total int64) int64 {
	if pos < 0 {
		return 0
	}
	if pos > total {
		return total
	}
	return pos
}

func clamp16(sample int) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}

// --- MP3 ---

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}
func (d *mp3Decoder) Length() int64     { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int { return 2 } // go-mp3 always decodes to stereo

// --- WAV ---

type wavDecoder struct {
	pcmState
	file         *os.File
	pcmStart     int64
	srcBitDepth  int
	srcFrameSize int64
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", ErrUnsupportedFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}
	srcFrameSize := int64(channels) * int64(bitDepth) / 8
	if srcFrameSize == 0 {
		return nil, fmt.Errorf("%w: WAV without channels", ErrUnsupportedFormat)
	}

	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}

	frames := dec.PCMLen() / srcFrameSize
	return &wavDecoder{
		pcmState: pcmState{
			totalBytes: frames * int64(channels) * 2,
			sampleRate: int(dec.SampleRate),
			channels:   channels,
		},
		file:         f,
		pcmStart:     pcmStart,
		srcBitDepth:  bitDepth,
		srcFrameSize: srcFrameSize,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}
	remaining := d.totalBytes - d.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	width := d.srcBitDepth / 8
	count := int(min(int64(max(len(p)/2, 1)), remaining/2))
	src := make([]byte, count*width)
	n, err := io.ReadFull(d.file, src)
	read := n / width
	if read == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, read*2)
	for i := range read {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(wavSample(src[i*width:], d.srcBitDepth)))
	}

	written := d.emit(p, raw)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if err == io.EOF && len(d.pending) > 0 {
		err = nil
	}
	return written, err
}

// wavSample converts one source sample to 16 bits.
func wavSample(b []byte, bitDepth int) int16 {
	switch bitDepth {
	case 8:
		return clamp16((int(b[0]) - 128) << 8) // 8-bit WAV is unsigned
	case 16:
		return int16(binary.LittleEndian.Uint16(b))
	case 24:
		s := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if s&0x800000 != 0 {
			s |= ^0xFFFFFF
		}
		return clamp16(int(s >> 8))
	default:
		return clamp16(int(int32(binary.LittleEndian.Uint32(b)) >> 16))
	}
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if _, err := d.file.Seek(d.pcmStart+frame*d.srcFrameSize, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

// --- FLAC ---

type flacDecoder struct {
	pcmState
	stream *flac.Stream
	bps    int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmState: pcmState{
			totalBytes: int64(info.NSamples) * int64(channels) * 2,
			sampleRate: int(info.SampleRate),
			channels:   channels,
		},
		stream: stream,
		bps:    int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	n := int(frame.Subframes[0].NSamples)
	raw := make([]byte, n*d.channels*2)
	for i := range n {
		for ch := range d.channels {
			sample := int(frame.Subframes[ch].Samples[i])
			switch {
			case d.bps > 16:
				sample >>= d.bps - 16
			case d.bps < 16:
				sample <<= 16 - d.bps
			}
			binary.LittleEndian.PutUint16(raw[(i*d.channels+ch)*2:], uint16(clamp16(sample)))
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if _, err := d.stream.Seek(uint64(frame)); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

// --- OGG Vorbis ---

type oggDecoder struct {
	pcmState
	reader *oggvorbis.Reader
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	return &oggDecoder{
		pcmState: pcmState{
			totalBytes: reader.Length() * int64(channels) * 2,
			sampleRate: reader.SampleRate(),
			channels:   channels,
		},
		reader: reader,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		return d.drain(p), nil
	}

	samples := make([]float32, max(len(p)/2, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		s = min(max(s, -1), 1)
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}
	return d.emit(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if err := d.reader.SetPosition(frame); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}
