package workspace

import (
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// RevealDuration is how long a revealed figure stays visible.
const RevealDuration = 5 * time.Second

// Masked is shown in place of a hidden figure.
const Masked = "*****"

// Timer is a pending single-shot callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Reveal controls whether the earnings figure is visible. Showing it arms a
// timer that hides it again; the last toggle wins.
type Reveal struct {
	afterFunc AfterFunc
	delay     time.Duration

	mu       sync.Mutex
	shown    bool
	timer    Timer
	gen      uint64
	onExpire func()
}

// NewReveal returns a hidden Reveal. A nil afterFunc uses time.AfterFunc.
func NewReveal(afterFunc AfterFunc) *Reveal {
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}
	return &Reveal{afterFunc: afterFunc, delay: RevealDuration}
}

// Toggle flips visibility and reports whether the figure is now shown.
func (r *Reveal) Toggle() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancel()
	if r.shown {
		r.shown = false
		return false
	}

	r.shown = true
	gen := r.gen
	r.timer = r.afterFunc(r.delay, func() {
		r.mu.Lock()
		// A timer stopped too late still fires; only the latest may hide.
		if r.gen != gen {
			r.mu.Unlock()
			return
		}
		r.shown = false
		r.timer = nil
		onExpire := r.onExpire
		r.mu.Unlock()

		if onExpire != nil {
			onExpire()
		}
	})
	return true
}

// OnExpire sets f to run after the timer hides the figure. It is not called
// for Toggle or Hide, and runs on the timer's goroutine.
func (r *Reveal) OnExpire(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpire = f
}

// Hide masks the figure and cancels any pending timer.
func (r *Reveal) Hide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel()
	r.shown = false
}

// Shown reports whether the figure is visible.
func (r *Reveal) Shown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown
}

// Format renders amount as money when shown, or the mask otherwise.
func (r *Reveal) Format(amount float64) string {
	if !r.Shown() {
		return Masked
	}
	return FormatMoney(amount)
}

// cancel must be called with mu held.
func (r *Reveal) cancel() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// FormatMoney renders amount in taka with digit grouping, e.g. ৳10,500.
func FormatMoney(amount float64) string {
	return message.NewPrinter(language.English).Sprintf("৳%v", number.Decimal(amount, number.MaxFractionDigits(2)))
}
