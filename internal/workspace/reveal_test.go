package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevealHidesAfterFiveSeconds(t *testing.T) {
	clock := &fakeClock{}
	r := NewReveal(clock.AfterFunc)

	assert.Equal(t, Masked, r.Format(10500))
	assert.True(t, r.Toggle())
	assert.Equal(t, "৳10,500", r.Format(10500))

	clock.Advance(4999 * time.Millisecond)
	assert.True(t, r.Shown())

	clock.Advance(2 * time.Millisecond)
	assert.False(t, r.Shown())
	assert.Equal(t, Masked, r.Format(10500))
}

func TestRevealToggleOffCancelsTimer(t *testing.T) {
	clock := &fakeClock{}
	r := NewReveal(clock.AfterFunc)

	r.Toggle()
	clock.Advance(2 * time.Second)
	assert.False(t, r.Toggle())

	// Shown again before the first timer would have fired.
	r.Toggle()
	clock.Advance(3500 * time.Millisecond)
	assert.True(t, r.Shown(), "cancelled timer must not hide the new reveal")

	clock.Advance(1501 * time.Millisecond)
	assert.False(t, r.Shown())
}

func TestRevealStaleFiringIsIgnored(t *testing.T) {
	var fire []func()
	r := NewReveal(func(_ time.Duration, f func()) Timer {
		fire = append(fire, f)
		return stubTimer{}
	})

	r.Toggle()
	r.Hide()
	r.Toggle()

	// The first callback runs even though it was stopped.
	fire[0]()
	assert.True(t, r.Shown())

	fire[1]()
	assert.False(t, r.Shown())
}

type stubTimer struct{}

func (stubTimer) Stop() bool { return false }

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "৳0", FormatMoney(0))
	assert.Equal(t, "৳1,234,567.5", FormatMoney(1234567.5))
}

func TestRevealOnExpire(t *testing.T) {
	clock := &fakeClock{}
	r := NewReveal(clock.AfterFunc)
	var seen []bool
	r.OnExpire(func() { seen = append(seen, r.Shown()) })

	r.Toggle()
	r.Toggle()
	clock.Advance(RevealDuration + time.Millisecond)
	assert.Empty(t, seen, "a cancelled reveal does not expire")

	r.Toggle()
	clock.Advance(RevealDuration + time.Millisecond)
	assert.Equal(t, []bool{false}, seen)
}
