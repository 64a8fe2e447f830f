package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sumire/freelance/internal/domain"
)

// Resource is the HTTP store for one resource. The owner is the user the
// client's token belongs to; ownerID arguments only guard against calls made
// while signed out.
type Resource[R any, In any] struct {
	client *Client
	path   string
}

// Projects returns the projects resource.
func (c *Client) Projects() *Resource[domain.Project, domain.ProjectInput] {
	return &Resource[domain.Project, domain.ProjectInput]{client: c, path: "/projects"}
}

// Requirements returns the requirements resource.
func (c *Client) Requirements() *Resource[domain.Requirement, domain.RequirementInput] {
	return &Resource[domain.Requirement, domain.RequirementInput]{client: c, path: "/requirements"}
}

// Payments returns the payments resource.
func (c *Client) Payments() *Resource[domain.Payment, domain.PaymentInput] {
	return &Resource[domain.Payment, domain.PaymentInput]{client: c, path: "/payments"}
}

// Meetings returns the meetings resource.
func (c *Client) Meetings() *Resource[domain.Meeting, domain.MeetingInput] {
	return &Resource[domain.Meeting, domain.MeetingInput]{client: c, path: "/meetings"}
}

// List returns every record, newest first.
func (r *Resource[R, In]) List(ctx context.Context, ownerID string) ([]R, error) {
	return r.ListForProject(ctx, ownerID, "")
}

// ListForProject returns the records of one project.
func (r *Resource[R, In]) ListForProject(ctx context.Context, ownerID, projectID string) ([]R, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}
	var items []R
	if err := r.client.do(ctx, http.MethodGet, r.path, projectQuery(projectID), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns one record.
func (r *Resource[R, In]) Get(ctx context.Context, ownerID, id string) (R, error) {
	var item R
	if ownerID == "" {
		return item, domain.ErrNoIdentity
	}
	err := r.client.do(ctx, http.MethodGet, r.item(id), nil, nil, &item)
	return item, err
}

// Create stores a new record.
func (r *Resource[R, In]) Create(ctx context.Context, ownerID string, in In) (R, error) {
	var item R
	if ownerID == "" {
		return item, domain.ErrNoIdentity
	}
	err := r.client.do(ctx, http.MethodPost, r.path, nil, in, &item)
	return item, err
}

// Update applies the supplied fields of in.
func (r *Resource[R, In]) Update(ctx context.Context, ownerID, id string, in In) (R, error) {
	var item R
	if ownerID == "" {
		return item, domain.ErrNoIdentity
	}
	err := r.client.do(ctx, http.MethodPatch, r.item(id), nil, in, &item)
	return item, err
}

// Delete removes a record.
func (r *Resource[R, In]) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrNoIdentity
	}
	return r.client.do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
}

func (r *Resource[R, In]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
