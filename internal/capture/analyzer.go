package capture

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/olivier-w/audiovis/internal/bridge"
	"github.com/olivier-w/audiovis/internal/config"
)

// Analyzer turns a block of mono samples into one frame of bar magnitudes.
// It reuses its buffers between calls and is not safe for concurrent use.
type Analyzer struct {
	resolution int
	size       int
	window     []float64

	maxFrequency float64
	favLow       float64
	favHigh      float64
	favRepeat    int
	factoring    float64
	smoothSize   int
	smoothPasses int

	re, im, mag []float64
}

// NewAnalyzer sizes an analyzer from the processing, visual and audio
// settings of cfg.
func NewAnalyzer(cfg config.Config) *Analyzer {
	res := int(cfg.Processing.Resolution)
	size := nextPow2(res)

	a := &Analyzer{
		resolution:   res,
		size:         size,
		maxFrequency: float64(cfg.Visual.MaxFrequency),
		favLow:       float64(cfg.Processing.FavFrequencyRange[0]),
		favHigh:      float64(cfg.Processing.FavFrequencyRange[1]),
		favRepeat:    int(cfg.Processing.FavFrequencyDoubling),
		factoring:    float64(cfg.Processing.NormalisationFactoring),
		smoothSize:   int(cfg.Visual.SmoothingSize),
		smoothPasses: int(cfg.Visual.SmoothingAmount),
		re:           make([]float64, size),
		im:           make([]float64, size),
		mag:          make([]float64, size/2),
	}
	if cfg.Audio.PreFFTWindowing {
		a.window = hann(res)
	}
	if a.favRepeat < 1 {
		a.favRepeat = 1
	}
	return a
}

// Size returns the FFT length, resolution rounded up to a power of two.
func (a *Analyzer) Size() int { return a.size }

// Analyze transforms samples (newest last, at most resolution are used) and
// returns the frame for the bridge. Bin 0 (DC) is never part of the frame.
// An empty or silent input gives a frame of zeros; a sample rate <= 0 gives
// nil.
func (a *Analyzer) Analyze(samples []float32, sampleRate int) bridge.Frame {
	if sampleRate <= 0 || a.size < 2 {
		return nil
	}
	if len(samples) > a.resolution {
		samples = samples[len(samples)-a.resolution:]
	}

	clear(a.re)
	clear(a.im)
	for i, s := range samples {
		a.re[i] = float64(s)
	}
	if a.window != nil {
		vecmath.MulBlockInPlace(a.re[:a.resolution], a.window)
	}

	fft(a.re, a.im)

	half := a.size / 2
	vecmath.Magnitude(a.mag, a.re[:half], a.im[:half])

	binWidth := float64(sampleRate) / float64(a.size)
	last := half - 1
	if cut := int(a.maxFrequency / binWidth); cut < last {
		last = cut
	}

	values := make([]float64, 0, last*a.favRepeat)
	for bin := 1; bin <= last; bin++ {
		v := a.mag[bin] / float64(a.size)
		repeat := 1
		if f := float64(bin) * binWidth; f >= a.favLow && f <= a.favHigh {
			repeat = a.favRepeat
		}
		for range repeat {
			values = append(values, v)
		}
	}

	values = place(values, a.factoring)
	for range a.smoothPasses {
		values = smooth(values, a.smoothSize)
	}

	frame := make(bridge.Frame, len(values))
	for i, v := range values {
		if v > 0 && !math.IsInf(v, 0) {
			frame[i] = float32(v)
		}
	}
	return frame
}

// place redistributes values across the same number of bars: bar b reads
// the value at position m*(b/m)^(1/factoring) with m = n-1, interpolated
// linearly. A factoring below 1 spreads the low end out. A factoring of 1,
// or of 0 and below, leaves values unchanged.
func place(values []float64, factoring float64) []float64 {
	n := len(values)
	if n < 2 || factoring <= 0 || factoring == 1 {
		return values
	}

	out := make([]float64, n)
	exp := 1 / factoring
	top := float64(n - 1)
	for b := range out {
		pos := top * math.Pow(float64(b)/top, exp)
		i := int(pos)
		if i >= n-1 {
			out[b] = values[n-1]
			continue
		}
		frac := pos - float64(i)
		out[b] = values[i]*(1-frac) + values[i+1]*frac
	}
	return out
}

// smooth is one centered moving-average pass with a window of size bars,
// shrunk at the edges.
func smooth(values []float64, size int) []float64 {
	if size <= 1 || len(values) < 2 {
		return values
	}
	half := size / 2

	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	out := make([]float64, len(values))
	for i := range values {
		lo := max(0, i-half)
		hi := min(len(values), i+half+1)
		out[i] = (prefix[hi] - prefix[lo]) / float64(hi-lo)
	}
	return out
}
