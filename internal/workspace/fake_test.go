package workspace

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sumire/freelance/internal/domain"
)

// memSource is an in-memory Source keyed by owner.
type memSource[R Keyed, In any] struct {
	mu      sync.Mutex
	rows    map[string][]R
	build   func(id string, in In) R
	nextID  int
	failAll error
	calls   int

	// inFlight runs once, after the next call is served and before it
	// returns, without holding the source lock.
	inFlight func()
}

func newMemSource[R Keyed, In any](build func(id string, in In) R) *memSource[R, In] {
	return &memSource[R, In]{rows: make(map[string][]R), build: build}
}

func (s *memSource[R, In]) seed(owner string, items ...R) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[owner] = append(s.rows[owner], items...)
}

func (s *memSource[R, In]) pause() {
	s.mu.Lock()
	f := s.inFlight
	s.inFlight = nil
	s.mu.Unlock()
	if f != nil {
		f()
	}
}

func (s *memSource[R, In]) List(_ context.Context, owner string) ([]R, error) {
	defer s.pause()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failAll != nil {
		return nil, s.failAll
	}
	return append([]R(nil), s.rows[owner]...), nil
}

func (s *memSource[R, In]) Create(_ context.Context, owner string, in In) (R, error) {
	defer s.pause()
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero R
	if s.failAll != nil {
		return zero, s.failAll
	}
	s.nextID++
	r := s.build("new-"+strconv.Itoa(s.nextID), in)
	s.rows[owner] = append([]R{r}, s.rows[owner]...)
	return r, nil
}

func (s *memSource[R, In]) Update(_ context.Context, owner, id string, in In) (R, error) {
	defer s.pause()
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero R
	if s.failAll != nil {
		return zero, s.failAll
	}
	for i, r := range s.rows[owner] {
		if r.Key() == id {
			s.rows[owner][i] = s.build(id, in)
			return s.rows[owner][i], nil
		}
	}
	return zero, domain.ErrNotFound
}

func (s *memSource[R, In]) Delete(_ context.Context, owner, id string) error {
	defer s.pause()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	for i, r := range s.rows[owner] {
		if r.Key() == id {
			s.rows[owner] = append(s.rows[owner][:i], s.rows[owner][i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

var errOffline = errors.New("store unreachable")

func buildProject(id string, in domain.ProjectInput) domain.Project {
	p := domain.Project{ID: id}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	return p
}

// fakeClock is a manual scheduler for Reveal.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward by d, firing due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func ptr[T any](v T) *T { return &v }
