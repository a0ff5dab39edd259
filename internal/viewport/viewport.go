// Package viewport owns the lifecycle of the displayed model: it issues
// load tokens, runs the fetch/parse/normalize pipeline in the background and
// installs only the result of the most recent request.
//
// Loads complete on their own goroutines but take effect only when the owner
// calls Update (typically once per frame) or Wait. State transitions and
// subscriber notifications therefore happen on the owner's goroutine.
package viewport

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/resource"
	"github.com/Faultbox/modelview/internal/store"
	"github.com/Faultbox/modelview/pkg/formats"
)

// Config configures a Viewport.
type Config struct {
	Store     store.Store
	Resources *resource.Manager // optional; a private manager is created
	Framer    camera.Framer     // zero value uses the defaults
	Settings  Settings
	Logger    *zap.Logger // optional
}

// Viewport is the state machine for the currently displayed model.
type Viewport struct {
	store     store.Store
	resources *resource.Manager
	framer    camera.Framer
	log       *zap.Logger

	mu       sync.Mutex
	token    Token // highest issued
	state    LoadState
	settings Settings
	cancel   context.CancelFunc
	closed   bool

	// Completed loads waiting to be applied.
	pending int
	done    []result
	wake    chan struct{}
	loads   sync.WaitGroup

	subs        []subscriber
	nextSub     int
	notifyQueue []LoadState
	dispatching bool
}

type subscriber struct {
	id int
	fn func(LoadState)
}

type result struct {
	token Token
	state LoadState
}

// New creates an idle Viewport.
func New(cfg Config) *Viewport {
	v := &Viewport{
		store:     cfg.Store,
		resources: cfg.Resources,
		framer:    cfg.Framer,
		log:       cfg.Logger,
		settings:  cfg.Settings,
		wake:      make(chan struct{}, 1),
	}
	if v.resources == nil {
		v.resources = resource.NewManager()
	}
	if v.framer.FOV == 0 && v.framer.Margin == 0 {
		v.framer = camera.NewFramer()
	}
	if v.log == nil {
		v.log = logger.Named("viewport")
	}
	return v
}

// Resources returns the manager that owns loaded model bytes.
func (v *Viewport) Resources() *resource.Manager {
	return v.resources
}

// State returns the live state.
func (v *Viewport) State() LoadState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe registers fn for every state transition, in order. fn runs on
// whichever goroutine is dispatching when the transition is queued, which is
// a caller of Request, Clear, Update, Wait or Close. fn may call back into
// the Viewport; transitions it triggers are delivered after it returns. If
// another goroutine is mid-dispatch, it delivers the queued transition, so
// callers that need GL-safe notifications should drive all of these methods
// from one goroutine.
func (v *Viewport) Subscribe(fn func(LoadState)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextSub++
	id := v.nextSub
	v.subs = append(v.subs, subscriber{id: id, fn: fn})

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// Request starts loading id and returns its token. The Loading state is
// live when Request returns; the previous load, if any, is superseded and
// its resources released. An empty id clears the viewport.
func (v *Viewport) Request(id store.ID) Token {
	v.mu.Lock()
	if v.closed {
		tok := v.token
		v.mu.Unlock()
		return tok
	}

	v.token++
	tok := v.token
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	superseded := v.state.Handle

	if id == "" {
		v.state = LoadState{Status: Idle, Token: tok}
	} else {
		v.state = LoadState{Status: Loading, Token: tok, ID: id}

		ctx, cancel := context.WithCancel(context.Background())
		v.cancel = cancel
		v.pending++
		v.loads.Add(1)
		go v.load(ctx, tok, id)
	}
	v.notifyQueue = append(v.notifyQueue, v.state)
	v.mu.Unlock()

	v.resources.Release(superseded)
	v.log.Debug("request", zap.Uint64("token", uint64(tok)), zap.String("id", string(id)))
	v.dispatch()
	return tok
}

// Clear is Request with no model.
func (v *Viewport) Clear() Token {
	return v.Request("")
}

// Pending reports whether a load has been started but not yet applied.
func (v *Viewport) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending > 0
}

// Update applies completed loads without blocking and returns how many it
// processed, stale ones included.
func (v *Viewport) Update() int {
	v.mu.Lock()
	done := v.done
	v.done = nil
	v.mu.Unlock()

	for _, r := range done {
		v.apply(r)
	}
	return len(done)
}

// Wait applies completed loads until none is pending or ctx is done.
func (v *Viewport) Wait(ctx context.Context) error {
	for {
		v.Update()
		if !v.Pending() {
			return nil
		}
		select {
		case <-v.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels in-flight loads, waits for them to finish, releases the
// live model and leaves the viewport Idle. Further requests are ignored.
func (v *Viewport) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.token++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	live := v.state.Handle
	v.state = LoadState{Status: Idle, Token: v.token}
	v.notifyQueue = append(v.notifyQueue, v.state)
	v.mu.Unlock()

	v.resources.Release(live)
	v.loads.Wait()
	v.Update()
	v.dispatch()
}

// deliver hands a finished load to the owner. After Close nobody applies
// results, so the handle is released here instead.
func (v *Viewport) deliver(r result) {
	v.mu.Lock()
	if v.closed {
		v.pending--
		v.mu.Unlock()
		v.resources.Release(r.state.Handle)
		return
	}
	v.done = append(v.done, r)
	v.mu.Unlock()

	select {
	case v.wake <- struct{}{}:
	default:
	}
}

func (v *Viewport) apply(r result) {
	v.mu.Lock()
	v.pending--
	if r.token != v.token || v.closed {
		v.mu.Unlock()
		v.resources.Release(r.state.Handle)
		v.log.Debug("discarded stale load",
			zap.Uint64("token", uint64(r.token)),
			zap.String("status", r.state.Status.String()))
		return
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.state = r.state
	v.notifyQueue = append(v.notifyQueue, v.state)
	v.mu.Unlock()

	if r.state.Status == Failed {
		v.log.Warn("load failed", zap.String("id", string(r.state.ID)), zap.Error(r.state.Err))
	} else {
		v.log.Debug("loaded",
			zap.Uint64("token", uint64(r.token)),
			zap.String("id", string(r.state.ID)),
			zap.Int("triangles", r.state.Model.Geometry.TriangleCount()))
	}
	v.dispatch()
}

// dispatch delivers queued notifications. Only one caller drains the queue
// at a time; nested calls return immediately and their states are picked up
// by the active loop.
func (v *Viewport) dispatch() {
	v.mu.Lock()
	if v.dispatching {
		v.mu.Unlock()
		return
	}
	v.dispatching = true
	for len(v.notifyQueue) > 0 {
		s := v.notifyQueue[0]
		v.notifyQueue = v.notifyQueue[1:]
		subs := append([]subscriber(nil), v.subs...)
		v.mu.Unlock()

		for _, sub := range subs {
			sub.fn(s)
		}

		v.mu.Lock()
	}
	v.dispatching = false
	v.mu.Unlock()
}

func (v *Viewport) load(ctx context.Context, tok Token, id store.ID) {
	defer v.loads.Done()
	v.deliver(result{token: tok, state: v.run(ctx, tok, id)})
}

// run executes the load pipeline. It never installs anything itself; a
// handle is attached only to a Loaded result.
func (v *Viewport) run(ctx context.Context, tok Token, id store.ID) LoadState {
	fail := func(phase Phase, kind, err error) LoadState {
		return LoadState{
			Status: Failed,
			Token:  tok,
			ID:     id,
			Err:    &LoadError{ID: id, Phase: phase, Kind: kind, Err: err},
		}
	}

	meta, err := v.store.Metadata(ctx, id)
	if err != nil {
		return fail(PhaseFetch, ErrFetch, err)
	}

	format, err := formats.ParseFormat(meta.Format)
	if err != nil {
		return fail(PhaseParse, formats.ErrUnsupportedFormat, err)
	}

	data, err := v.store.Bytes(ctx, id)
	if err != nil {
		return fail(PhaseTransfer, ErrTransfer, err)
	}
	if err := ctx.Err(); err != nil {
		return fail(PhaseTransfer, ErrTransfer, err)
	}

	h := v.resources.Acquire(data)

	geom, err := formats.Parse(h.Bytes(), format)
	if err != nil {
		v.resources.Release(h)
		kind := formats.ErrMalformedGeometry
		if errors.Is(err, formats.ErrUnsupportedFormat) {
			kind = formats.ErrUnsupportedFormat
		}
		return fail(PhaseParse, kind, err)
	}

	normalized, err := model.Normalize(geom)
	if err != nil {
		v.resources.Release(h)
		return fail(PhaseNormalize, model.ErrEmptyGeometry, err)
	}

	return LoadState{
		Status: Loaded,
		Token:  tok,
		ID:     id,
		Model:  normalized,
		Meta:   meta,
		Camera: v.framer.Frame(normalized.NormalizedBounds()),
		Handle: h,
	}
}
