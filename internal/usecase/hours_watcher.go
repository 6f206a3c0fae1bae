package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/logging"
)

// HoursWatcher keeps a published store status fresh. It wakes shortly after
// each opening or closing edge and also on a coarse fallback interval.
type HoursWatcher struct {
	hours    domain.StoreHours
	rec      Recorder
	now      func() time.Time
	slack    time.Duration
	fallback time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	status  domain.StoreStatus
	known   bool
	timer   *time.Timer
	stop    chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

type WatcherOption func(*HoursWatcher)

func WithClock(now func() time.Time) WatcherOption { return func(w *HoursWatcher) { w.now = now } }
func WithSlack(d time.Duration) WatcherOption      { return func(w *HoursWatcher) { w.slack = d } }
func WithFallback(d time.Duration) WatcherOption   { return func(w *HoursWatcher) { w.fallback = d } }

// NewHoursWatcher constructs a watcher. Defaults: slack=1.2s, fallback=60s.
func NewHoursWatcher(hours domain.StoreHours, rec Recorder, opts ...WatcherOption) *HoursWatcher {
	if rec == nil {
		rec = nopRecorder{}
	}
	w := &HoursWatcher{
		hours:    hours,
		rec:      rec,
		now:      time.Now,
		slack:    1200 * time.Millisecond,
		fallback: time.Minute,
		log:      logging.New("store-hours"),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start evaluates the status now, arms the boundary timer and runs the
// fallback ticker until ctx is done or Stop is called.
func (w *HoursWatcher) Start(ctx context.Context) {
	w.Reschedule()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.fallback)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				w.halt()
				return
			case <-w.stop:
				return
			case <-t.C:
				w.refresh()
			}
		}
	}()
}

func (w *HoursWatcher) Status() domain.StoreStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.known {
		return w.hours.Status(w.now())
	}
	return w.status
}

// Reschedule recomputes the status and replaces any pending boundary timer.
func (w *HoursWatcher) Reschedule() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	w.refresh()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.nextDelay(), w.Reschedule)
}

// Stop cancels the timer and the fallback loop. It is safe to call twice.
func (w *HoursWatcher) Stop() {
	w.halt()
	w.wg.Wait()
}

func (w *HoursWatcher) halt() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.stop)
}

func (w *HoursWatcher) nextDelay() time.Duration {
	now := w.now()
	d := w.hours.NextBoundary(now).Sub(now) + w.slack
	if d < w.slack {
		d = w.slack
	}
	return d
}

func (w *HoursWatcher) refresh() {
	s := w.hours.Status(w.now())

	// A timer that fired before Stop must not record afterwards.
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	changed := !w.known || s.IsOpen != w.status.IsOpen
	w.status, w.known = s, true
	w.rec.StoreOpen(s.IsOpen)
	w.mu.Unlock()

	if changed {
		w.log.Info("store status", "open", s.IsOpen, "banner", s.Banner())
	}
}
