package core

import (
	"sync"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// IdleState is a state of the idle detector.
type IdleState string

const (
	IdleInactive      IdleState = ""
	IdleDetecting     IdleState = "detecting"
	IdleTracking      IdleState = "tracking_idle"
	IdleReviewPending IdleState = "review_pending"
)

// UnattendedDescription is logged when an idle review is dismissed.
const UnattendedDescription = "(unattended)"

// IdleOptions configures an IdleDetector.
type IdleOptions struct {
	Window     time.Duration
	MinTracked time.Duration
	Throttle   time.Duration
	// Eligible reports whether detection may start: the day is started and
	// no task timer is running.
	Eligible func() bool
}

// IdleOptionsFromConfig converts the idle section of the config.
func IdleOptionsFromConfig(c models.IdleConfig, eligible func() bool) IdleOptions {
	return IdleOptions{
		Window:     time.Duration(c.WindowSeconds) * time.Second,
		MinTracked: time.Duration(c.MinTrackedSeconds) * time.Second,
		Throttle:   time.Duration(c.ThrottleMillis) * time.Millisecond,
		Eligible:   eligible,
	}
}

// IdleDetector notices when the user walks away and asks them to account for
// the time when they return. Tick and Activity may be called from different
// goroutines; every transition happens under one mutex.
type IdleDetector struct {
	mu           sync.Mutex
	state        IdleState
	seconds      int
	window       int
	minTracked   int
	throttle     time.Duration
	lastActivity time.Time
	eligible     func() bool
	store        Dispatcher
	onChange     func(IdleState, int)
}

// NewIdleDetector creates a detector in the inactive state. Zero options
// select a 300 second window, a 2 second noise floor and a 500ms throttle.
func NewIdleDetector(opts IdleOptions, store Dispatcher) *IdleDetector {
	d := &IdleDetector{
		window:     int(opts.Window / time.Second),
		minTracked: int(opts.MinTracked / time.Second),
		throttle:   opts.Throttle,
		eligible:   opts.Eligible,
		store:      store,
	}
	if d.window <= 0 {
		d.window = 300
	}
	if opts.MinTracked == 0 {
		d.minTracked = 2
	}
	if d.throttle == 0 {
		d.throttle = 500 * time.Millisecond
	}
	if d.eligible == nil {
		d.eligible = func() bool { return true }
	}
	return d
}

// OnChange registers fn to be called after every transition.
func (d *IdleDetector) OnChange(fn func(IdleState, int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

// Status returns the current state and its second counter: the remaining
// countdown while detecting, the idle seconds otherwise.
func (d *IdleDetector) Status() (IdleState, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.seconds
}

// Tick advances the detector by one second.
func (d *IdleDetector) Tick(time.Time) {
	d.mu.Lock()
	before := d.state
	switch d.state {
	case IdleInactive:
		if d.eligible() {
			d.state = IdleDetecting
			d.seconds = d.window
			d.countdownLocked()
		}
	case IdleDetecting:
		if !d.eligible() {
			d.resetLocked()
			break
		}
		d.countdownLocked()
	case IdleTracking:
		d.seconds++
	}
	d.notifyLocked(before != d.state || d.state == IdleTracking)
}

func (d *IdleDetector) countdownLocked() {
	d.seconds--
	if d.seconds <= 0 {
		d.state = IdleTracking
		d.seconds = 0
	}
}

// Activity reports user input. Calls closer together than the throttle
// interval are ignored.
func (d *IdleDetector) Activity(now time.Time) {
	d.mu.Lock()
	if !d.lastActivity.IsZero() && now.Sub(d.lastActivity) < d.throttle {
		d.mu.Unlock()
		return
	}
	d.lastActivity = now
	before := d.state
	switch d.state {
	case IdleDetecting:
		d.resetLocked()
	case IdleTracking:
		if d.seconds > d.minTracked {
			d.state = IdleReviewPending
		} else {
			d.resetLocked()
		}
	}
	d.notifyLocked(before != d.state)
}

// Submit logs the pending idle period with the user's description and tag.
// It does nothing unless a review is pending.
func (d *IdleDetector) Submit(description string, tag models.IdleTag) error {
	return d.finish(LogIdleTime{Description: description, Tag: tag})
}

// Dismiss logs the pending idle period as unattended and unproductive.
func (d *IdleDetector) Dismiss() error {
	return d.finish(LogIdleTime{Description: UnattendedDescription, Tag: models.IdleUnproductive})
}

func (d *IdleDetector) finish(in LogIdleTime) error {
	d.mu.Lock()
	if d.state != IdleReviewPending {
		d.mu.Unlock()
		return nil
	}
	in.DurationSeconds = d.seconds
	d.mu.Unlock()

	if d.store != nil {
		if err := d.store.Dispatch(in); err != nil {
			return err
		}
	}

	d.mu.Lock()
	d.resetLocked()
	d.notifyLocked(true)
	return nil
}

// Reset returns the detector to the inactive state, discarding any tracked
// time.
func (d *IdleDetector) Reset() {
	d.mu.Lock()
	changed := d.state != IdleInactive
	d.resetLocked()
	d.notifyLocked(changed)
}

func (d *IdleDetector) resetLocked() {
	d.state = IdleInactive
	d.seconds = 0
}

// notifyLocked releases d.mu and then calls the change hook if changed.
func (d *IdleDetector) notifyLocked(changed bool) {
	state, secs, fn := d.state, d.seconds, d.onChange
	d.mu.Unlock()
	if changed && fn != nil {
		fn(state, secs)
	}
}
