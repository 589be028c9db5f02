package bridge

import "slices"

// Frame is one tick of bar magnitudes, index = bar position.
type Frame = []float32

// BarReduction collapses groups of k adjacent bars into their mean.
//
// The scan keeps the mean of [p, p+k) at p and removes the k bars after it,
// then advances p by one, so each following group starts on data that has
// just shifted in. The scan stops once a full group no longer fits, and the
// trailing k bars are dropped. k == 0 returns frame unchanged. The result
// reuses frame's backing array.
func BarReduction(frame Frame, k int) Frame {
	if k <= 0 {
		return frame
	}

	n := len(frame)
	w, r := 0, 0
	for r+k < n {
		var sum float32
		for _, v := range frame[r : r+k] {
			sum += v
		}
		frame[w] = sum / float32(k)
		w++
		r += k + 1
	}
	w += copy(frame[w:], frame[r:n])
	frame = frame[:w]

	if len(frame) > k {
		frame = frame[:len(frame)-k]
	}
	return frame
}

// BufferGravity blends next with the previous smoothing reference.
//
// Bars rise instantly: where next is higher than prev the held value becomes
// next. Every held value is then divided by gravity, so bars fall off over
// successive frames. prev is zero-padded when shorter than next and its extra
// tail is ignored when longer. prev is not modified.
func BufferGravity(prev, next Frame, gravity float32) Frame {
	out := make(Frame, len(next))
	for i, v := range next {
		var held float32
		if i < len(prev) {
			held = prev[i]
		}
		if v > held {
			held = v
		}
		out[i] = held / gravity
	}
	return out
}

// ReduceBuffer thins older frames of a history snapshot in place.
//
// The frame at depth z gets min(maxDrop, floor(z*resolutionDrop*0.1))
// passes. A pass walks pairs starting at index 1 (index 0 is kept as an
// anchor), removes the lower value of each pair (the second one on a tie) and
// skips ahead two positions.
func ReduceBuffer(history []Frame, resolutionDrop float32, maxDrop int) {
	if resolutionDrop <= 0 {
		return
	}
	for z, b := range history {
		amount := int(float32(z) * resolutionDrop * 0.1)
		if amount > maxDrop {
			amount = maxDrop
		}
		for range amount {
			b = thinPass(b)
		}
		history[z] = b
	}
}

func thinPass(b Frame) Frame {
	for pos := 1; len(b) > pos+1; pos += 2 {
		drop := pos + 1
		if b[pos] < b[pos+1] {
			drop = pos
		}
		b = append(b[:drop], b[drop+1:]...)
	}
	return b
}

// cloneHistory deep-copies every frame of h.
func cloneHistory(h []Frame) []Frame {
	out := make([]Frame, len(h))
	for i, f := range h {
		out[i] = slices.Clone(f)
	}
	return out
}
