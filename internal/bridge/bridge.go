// Package bridge hands frames from the capture stage to the display.
//
// A Bridge is an actor: one goroutine (Run) owns the frame history, the
// smoothing reference and the current mesh, and every access goes through
// its inbox. Mesh building is pushed onto a short-lived goroutine per frame
// so a slow build never holds up ingestion.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/olivier-w/audiovis/internal/config"
	"github.com/olivier-w/audiovis/internal/mesh"
)

const inboxSize = 16

// Event is a message accepted by the bridge inbox: Push, PushMesh or
// Consume.
type Event interface {
	event()
}

// Push delivers a new frame. The bridge takes ownership of Frame and may
// shrink it in place.
type Push struct {
	Frame Frame
}

// PushMesh replaces the current mesh. Seq is the number of the Push the mesh
// was built from; a tagged mesh older than the one held is dropped. Seq 0
// always replaces.
type PushMesh struct {
	Mesh mesh.Mesh
	Seq  uint64
}

// Consume asks for a copy of the current mesh. Reply must have room for one
// value: the bridge never waits on it, so an unbuffered reply with no ready
// receiver is dropped and counted in Stats.ReplyDrops.
type Consume struct {
	Reply chan<- mesh.Mesh
}

func (Push) event()     {}
func (PushMesh) event() {}
func (Consume) event()  {}

// Stats is a snapshot of bridge counters.
type Stats struct {
	Pushes     uint64 // frames ingested
	Meshes     uint64 // meshes accepted as current
	Stale      uint64 // meshes dropped for being older than the current one
	ReplyDrops uint64 // Consume replies that could not be delivered
	InFlight   int64  // build goroutines still running
	Depth      int64  // frames in history
}

// Bridge is the processing actor.
type Bridge struct {
	cfg     config.Config
	inbox   chan Event
	results chan PushMesh
	fatal   chan error
	builds  sync.WaitGroup

	// owned by the Run goroutine
	history    []Frame
	reference  Frame
	current    mesh.Mesh
	currentSeq uint64
	seq        uint64

	pushes     atomic.Uint64
	meshes     atomic.Uint64
	stale      atomic.Uint64
	replyDrops atomic.Uint64
	inFlight   atomic.Int64
	depth      atomic.Int64
}

// New creates a bridge for cfg. Call Run to start it.
func New(cfg config.Config) *Bridge {
	return &Bridge{
		cfg:     cfg,
		inbox:   make(chan Event, inboxSize),
		results: make(chan PushMesh, inboxSize),
		fatal:   make(chan error, 1),
	}
}

// Inbox returns the send side of the bridge's event queue. Closing it is
// treated as a fatal condition by Run.
func (b *Bridge) Inbox() chan<- Event {
	return b.inbox
}

// Run processes events until ctx is cancelled (returns nil), the inbox is
// closed (ErrInboxClosed) or a build hits an unknown visualisation (an error
// wrapping mesh.ErrUnknownVisualisation). It waits for in-flight builds
// before returning. Run must be called at most once.
func (b *Bridge) Run(ctx context.Context) error {
	defer b.builds.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-b.fatal:
			return fmt.Errorf("building mesh: %w", err)
		case res := <-b.results:
			b.storeMesh(res)
		case ev, ok := <-b.inbox:
			if !ok {
				return ErrInboxClosed
			}
			b.handle(ctx, ev)
		}
	}
}

// Push sends a frame, blocking until the inbox accepts it or ctx ends.
func (b *Bridge) Push(ctx context.Context, frame Frame) error {
	return b.send(ctx, Push{Frame: frame})
}

// Consume returns a copy of the current mesh.
func (b *Bridge) Consume(ctx context.Context) (mesh.Mesh, error) {
	reply := make(chan mesh.Mesh, 1)
	if err := b.send(ctx, Consume{Reply: reply}); err != nil {
		return mesh.Mesh{}, err
	}
	select {
	case m := <-reply:
		return m, nil
	case <-ctx.Done():
		return mesh.Mesh{}, ctx.Err()
	}
}

// Stats returns the current counters. Safe to call from any goroutine.
func (b *Bridge) Stats() Stats {
	return Stats{
		Pushes:     b.pushes.Load(),
		Meshes:     b.meshes.Load(),
		Stale:      b.stale.Load(),
		ReplyDrops: b.replyDrops.Load(),
		InFlight:   b.inFlight.Load(),
		Depth:      b.depth.Load(),
	}
}

func (b *Bridge) send(ctx context.Context, ev Event) error {
	select {
	case b.inbox <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bridge) handle(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case Push:
		b.push(ctx, ev.Frame)
	case PushMesh:
		b.storeMesh(ev)
	case Consume:
		b.reply(ev.Reply)
	}
}

func (b *Bridge) push(ctx context.Context, frame Frame) {
	p := b.cfg.Processing

	frame = BarReduction(frame, int(p.BarReduction))
	if len(b.history) > 0 {
		frame = BufferGravity(b.reference, frame, p.EffectiveGravity())
	}
	b.reference = frame

	b.history = slices.Insert(b.history, 0, frame)
	if limit := int(p.Buffering); len(b.history) > limit {
		clear(b.history[limit:])
		b.history = b.history[:limit]
	}
	b.pushes.Add(1)
	b.depth.Store(int64(len(b.history)))

	b.seq++
	b.builds.Add(1)
	b.inFlight.Add(1)
	go b.build(ctx, cloneHistory(b.history), b.seq)
}

// build runs on its own goroutine and owns history.
func (b *Bridge) build(ctx context.Context, history []Frame, seq uint64) {
	defer b.builds.Done()
	defer b.inFlight.Add(-1)

	p := b.cfg.Processing
	if len(history) > 1 {
		ReduceBuffer(history, p.BufferResolutionDrop, int(p.MaxBufferResolutionDrop))
	}

	builder, err := mesh.Lookup(b.cfg.Visual.Visualisation)
	if err != nil {
		select {
		case b.fatal <- err:
		default:
		}
		return
	}

	m := builder(history, mesh.Params{
		Width:           b.cfg.Visual.Width,
		ZWidth:          b.cfg.Visual.ZWidth,
		VolumeAmplitude: b.cfg.Audio.VolumeAmplitude,
		VolumeFactoring: b.cfg.Audio.VolumeFactoring,
	})

	select {
	case b.results <- PushMesh{Mesh: m, Seq: seq}:
	case <-ctx.Done():
	}
}

func (b *Bridge) storeMesh(pm PushMesh) {
	// Seq 0 is untagged and always replaces, without moving currentSeq.
	if pm.Seq != 0 && pm.Seq < b.currentSeq {
		b.stale.Add(1)
		return
	}
	b.current = pm.Mesh
	if pm.Seq != 0 {
		b.currentSeq = pm.Seq
	}
	b.meshes.Add(1)
}

func (b *Bridge) reply(ch chan<- mesh.Mesh) {
	select {
	case ch <- b.current.Clone():
	default:
		b.replyDrops.Add(1)
		slog.Debug("bridge: consume reply dropped, receiver not ready",
			"drops", b.replyDrops.Load())
	}
}
