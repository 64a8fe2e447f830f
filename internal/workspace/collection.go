// Package workspace keeps the signed-in user's records in memory, mirrors
// every change to a Source, and reports outcomes through a notifier.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/notify"
	"github.com/sumire/freelance/internal/session"
)

// Keyed is implemented by records with a store-assigned id.
type Keyed interface {
	Key() string
}

// Source is the store a Collection reads from and writes to. The service
// resources and the HTTP client both satisfy it.
type Source[R any, In any] interface {
	List(ctx context.Context, ownerID string) ([]R, error)
	Create(ctx context.Context, ownerID string, in In) (R, error)
	Update(ctx context.Context, ownerID, id string, in In) (R, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Labels name a resource in notifications.
type Labels struct {
	Singular string
	Plural   string
	// Emphatic appends "successfully" to success messages.
	Emphatic bool
}

func (l Labels) succeeded(verb string) string {
	msg := l.Singular + " " + verb
	if l.Emphatic {
		msg += " successfully"
	}
	return msg + "."
}

func (l Labels) failed(verb string, plural bool) string {
	noun := l.Singular
	if plural {
		noun = l.Plural
	}
	return fmt.Sprintf("Failed to %s %s.", verb, strings.ToLower(noun))
}

// Collection is the in-memory list of one resource for the current user.
// Items are kept in store order, most recent first.
type Collection[R Keyed, In any] struct {
	source   Source[R, In]
	session  *session.Session
	notifier notify.Notifier
	labels   Labels

	mu      sync.Mutex
	items   []R
	loading bool
}

// NewCollection creates an empty, loading Collection.
func NewCollection[R Keyed, In any](source Source[R, In], sess *session.Session, notifier notify.Notifier, labels Labels) *Collection[R, In] {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &Collection[R, In]{
		source:   source,
		session:  sess,
		notifier: notifier,
		labels:   labels,
		items:    []R{},
		loading:  true,
	}
}

// Watch refreshes the collection now and whenever the signed-in user changes,
// clearing it on sign out. Call the returned function to stop watching.
func (c *Collection[R, In]) Watch(ctx context.Context) (stop func()) {
	unsubscribe := c.session.Subscribe(func(_ domain.Identity, ok bool) {
		if !ok {
			c.reset()
			return
		}
		_ = c.Refresh(ctx)
	})
	_ = c.Refresh(ctx)
	return unsubscribe
}

// Refresh replaces the items with the store's current list. Without a
// signed-in user it does nothing. On failure the items are kept.
func (c *Collection[R, In]) Refresh(ctx context.Context) error {
	owner := c.session.UserID()
	if owner == "" {
		return nil
	}

	items, err := c.source.List(ctx, owner)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(owner) {
		return err
	}
	c.loading = false
	if err != nil {
		c.fail("load", true, err)
		return err
	}
	if items == nil {
		items = []R{}
	}
	c.items = items
	return nil
}

// Create stores in and puts the stored record first.
func (c *Collection[R, In]) Create(ctx context.Context, in In) (R, error) {
	var zero R
	owner := c.session.UserID()
	if owner == "" {
		return zero, domain.ErrNoIdentity
	}

	record, err := c.source.Create(ctx, owner, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(owner) {
		return record, err
	}
	if err != nil {
		c.fail("create", false, err)
		return zero, err
	}
	c.items = append([]R{record}, c.items...)
	c.notifier.Notify(domain.Success(c.labels.succeeded("created")))
	return record, nil
}

// Update applies in to the record id and replaces it where it stands.
func (c *Collection[R, In]) Update(ctx context.Context, id string, in In) (R, error) {
	var zero R
	owner := c.session.UserID()
	if owner == "" {
		return zero, domain.ErrNoIdentity
	}

	record, err := c.source.Update(ctx, owner, id, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(owner) {
		return record, err
	}
	if err != nil {
		c.fail("update", false, err)
		return zero, err
	}
	for i := range c.items {
		if c.items[i].Key() == id {
			c.items[i] = record
			break
		}
	}
	c.notifier.Notify(domain.Success(c.labels.succeeded("updated")))
	return record, nil
}

// Delete removes the record id.
func (c *Collection[R, In]) Delete(ctx context.Context, id string) error {
	owner := c.session.UserID()
	if owner == "" {
		return domain.ErrNoIdentity
	}

	err := c.source.Delete(ctx, owner, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(owner) {
		return err
	}
	if err != nil {
		c.fail("delete", false, err)
		return err
	}
	kept := make([]R, 0, len(c.items))
	for _, item := range c.items {
		if item.Key() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.notifier.Notify(domain.Success(c.labels.succeeded("deleted")))
	return nil
}

// stale reports whether the user changed while a request for owner was in
// flight. Its result then belongs to nobody on screen and is dropped.
func (c *Collection[R, In]) stale(owner string) bool {
	return c.session.UserID() != owner
}

// Items returns a copy of the current items.
func (c *Collection[R, In]) Items() []R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]R{}, c.items...)
}

// Loading reports whether the first fetch has yet to settle.
func (c *Collection[R, In]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Find returns the item with id.
func (c *Collection[R, In]) Find(id string) (R, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero R
	return zero, false
}

func (c *Collection[R, In]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []R{}
	c.loading = true
}

// fail must be called with mu held.
func (c *Collection[R, In]) fail(verb string, plural bool, err error) {
	if errors.Is(err, domain.ErrNoIdentity) {
		return
	}
	slog.Error("workspace operation failed", "resource", c.labels.Plural, "operation", verb, "error", err)
	c.notifier.Notify(domain.Failure(c.labels.failed(verb, plural)))
}
