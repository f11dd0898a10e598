package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/langdrill/internal/capture"
	"github.com/abhisek/langdrill/internal/evaluate"
	"github.com/abhisek/langdrill/internal/logger"
)

// ErrNoEvaluator is reported when an open response is submitted without a
// configured evaluator.
var ErrNoEvaluator = errors.New("no evaluator configured")

// ErrStopped is returned by Dispatch after Run has exited.
var ErrStopped = errors.New("session: controller stopped")

// Ticker is the subset of time.Ticker the controller uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Options configures a Controller. Zero values fall back to no-op or
// real-time implementations.
type Options struct {
	Recorder  capture.Recorder
	Player    capture.Player
	Evaluator evaluate.Evaluator
	Logger    *logger.Logger

	// OnSettled is called on the event loop once per submission, when the
	// result is final or evaluation has failed.
	OnSettled func(State)

	// NewTicker and Interval control the phase timer. Interval defaults to
	// one second.
	NewTicker func(time.Duration) Ticker
	Interval  time.Duration
}

type envelope struct {
	ev    Event
	reply chan error
}

// Controller owns one session. All state changes happen on the goroutine
// running Run; other goroutines talk to it through Send and Dispatch.
type Controller struct {
	opts Options
	log  *logger.Logger

	events  chan envelope
	updates chan State
	done    chan struct{}

	// Event loop only.
	state      State
	ticker     Ticker
	tickC      <-chan time.Time
	tickEpoch  int
	runCtx     context.Context
	workCtx    context.Context
	cancelWork context.CancelFunc
	jobs       chan func()

	mu      sync.Mutex
	current State
}

// NewController creates a controller for an initial state from New.
func NewController(s State, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Recorder == nil {
		opts.Recorder = capture.Unavailable{}
	}
	if opts.Player == nil {
		opts.Player = capture.LogPlayer{Log: opts.Logger}
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewRealTicker
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &Controller{
		opts:    opts,
		log:     opts.Logger.With("record", s.Plan.Record.Key()),
		events:  make(chan envelope, 16),
		updates: make(chan State, 1),
		done:    make(chan struct{}),
		state:   s,
		current: s,
	}
}

// Updates delivers state snapshots. Only the latest unread snapshot is
// kept. The channel is closed when Run returns.
func (c *Controller) Updates() <-chan State {
	return c.updates
}

// State returns the most recent state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Send posts an event without waiting for it to be handled.
func (c *Controller) Send(ev Event) {
	select {
	case c.events <- envelope{ev: ev}:
	case <-c.done:
	}
}

// Dispatch posts an event and waits for the transition result.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	reply := make(chan error, 1)
	select {
	case c.events <- envelope{ev: ev, reply: reply}:
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	c.runCtx = ctx
	c.workCtx, c.cancelWork = context.WithCancel(ctx)
	c.jobs = make(chan func(), 16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for job := range c.jobs {
			job()
		}
	}()

	c.publish()
	defer func() {
		c.stopTimer()
		c.cancelWork()
		close(c.done)
		rec := c.opts.Recorder
		c.jobs <- func() { _ = rec.Release() }
		close(c.jobs)
		wg.Wait()
		close(c.updates)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-c.events:
			err := c.handle(env.ev)
			if env.reply != nil {
				env.reply <- err
			}
		case <-c.tickC:
			_ = c.handle(Tick{Epoch: c.tickEpoch})
		}
	}
}

func (c *Controller) handle(ev Event) error {
	prev := c.state
	next, effects, err := Step(prev, ev)
	if err != nil {
		c.log.Debug("event rejected", "event", eventName(ev), "phase", prev.Phase.String(), "error", err)
		return err
	}

	c.state = next
	if next.Generation != prev.Generation {
		c.cancelWork()
		c.workCtx, c.cancelWork = context.WithCancel(c.runCtx)
		c.log.Info("session restarted", "generation", next.Generation)
	}
	if next.Phase != prev.Phase {
		c.log.Debug("phase changed", "from", prev.Phase.String(), "to", next.Phase.String())
	}

	for _, eff := range effects {
		c.apply(eff)
	}
	c.publish()
	return nil
}

func (c *Controller) apply(eff Effect) {
	ctx := c.workCtx
	rec := c.opts.Recorder

	switch e := eff.(type) {
	case StartTimer:
		c.stopTimer()
		c.ticker = c.opts.NewTicker(c.opts.Interval)
		c.tickC = c.ticker.C()
		c.tickEpoch = e.Epoch

	case StopTimer:
		c.stopTimer()

	case PlayAudio:
		go func() {
			if err := c.opts.Player.Play(ctx, e.URL); err != nil {
				c.log.Warn("playback failed", "url", e.URL, "error", err)
			}
		}()

	case AcquireCapture:
		c.jobs <- func() {
			if err := rec.Acquire(ctx); err != nil {
				c.post(CaptureDenied{Gen: e.Gen, Err: err})
				return
			}
			if err := rec.Start(ctx); err != nil {
				c.post(CaptureDenied{Gen: e.Gen, Err: err})
				return
			}
			c.post(CaptureStarted{Gen: e.Gen})
		}

	case StopCapture:
		c.jobs <- func() {
			clip, err := rec.Stop(ctx)
			if err != nil {
				c.post(CaptureFailed{Gen: e.Gen, Err: err})
				return
			}
			c.post(CaptureFinished{Gen: e.Gen, Clip: clip})
		}

	case ReleaseCapture:
		c.jobs <- func() {
			if err := rec.Release(); err != nil {
				c.log.Warn("release capture", "error", err)
			}
		}

	case Evaluate:
		ev := c.opts.Evaluator
		go func() {
			if ev == nil {
				c.post(EvaluationFailed{Gen: e.Gen, Err: ErrNoEvaluator})
				return
			}
			res, err := ev.Evaluate(ctx, e.Submission)
			if err != nil {
				c.post(EvaluationFailed{Gen: e.Gen, Err: err})
				return
			}
			c.post(Evaluated{Gen: e.Gen, Result: res})
		}()

	case Settled:
		c.log.Info("submission settled", "generation", e.Gen, "scored", c.state.Result != nil)
		if c.opts.OnSettled != nil {
			c.opts.OnSettled(c.state)
		}
	}
}

// post delivers an async completion unless the loop has exited.
func (c *Controller) post(ev Event) {
	select {
	case c.events <- envelope{ev: ev}:
	case <-c.done:
	}
}

func (c *Controller) stopTimer() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.tickC = nil
}

func (c *Controller) publish() {
	c.mu.Lock()
	c.current = c.state
	c.mu.Unlock()

	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- c.state:
	default:
	}
}

func eventName(ev Event) string {
	switch ev.(type) {
	case Start:
		return "start"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	case Submit:
		return "submit"
	case Restart:
		return "restart"
	case Answer:
		return "answer"
	case RetryCapture:
		return "retry_capture"
	}
	return "async"
}
