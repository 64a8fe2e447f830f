package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sumire/freelance/internal/domain"
)

type (
	ProjectService     = Resource[domain.Project, domain.ProjectInput, domain.ProjectRow]
	RequirementService = Resource[domain.Requirement, domain.RequirementInput, domain.RequirementRow]
	PaymentService     = Resource[domain.Payment, domain.PaymentInput, domain.PaymentRow]
	MeetingService     = Resource[domain.Meeting, domain.MeetingInput, domain.MeetingRow]
)

// Tables bundles the stores backing each resource.
type Tables struct {
	Projects     Table[domain.ProjectRow]
	Requirements Table[domain.RequirementRow]
	Payments     Table[domain.PaymentRow]
	Meetings     Table[domain.MeetingRow]
}

// Services exposes the four owner-scoped resources and the views derived
// from them.
type Services struct {
	Projects     *ProjectService
	Requirements *RequirementService
	Payments     *PaymentService
	Meetings     *MeetingService
}

// NewServices wires a resource over each table. Child inputs that name a
// project must name one the owner can see.
func NewServices(tables Tables, v *Validator) *Services {
	projects := NewResource[domain.Project, domain.ProjectInput](tables.Projects, domain.ProjectFromRow, v)
	owned := projectExists(projects)

	return &Services{
		Projects: projects,
		Requirements: NewResource(tables.Requirements, domain.RequirementFromRow, v,
			func(ctx context.Context, ownerID string, in domain.RequirementInput) error {
				return owned(ctx, ownerID, in.ProjectID)
			}),
		Payments: NewResource(tables.Payments, domain.PaymentFromRow, v,
			func(ctx context.Context, ownerID string, in domain.PaymentInput) error {
				return owned(ctx, ownerID, in.ProjectID)
			}),
		Meetings: NewResource(tables.Meetings, domain.MeetingFromRow, v,
			func(ctx context.Context, ownerID string, in domain.MeetingInput) error {
				return owned(ctx, ownerID, in.ProjectID)
			}),
	}
}

func projectExists(projects *ProjectService) func(ctx context.Context, ownerID string, projectID *string) error {
	return func(ctx context.Context, ownerID string, projectID *string) error {
		if projectID == nil {
			return nil
		}
		if _, err := projects.Get(ctx, ownerID, *projectID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.ValidationError{Field: "projectId", Message: "unknown project"}
			}
			return err
		}
		return nil
	}
}

// Dashboard computes the overview aggregates for ownerID.
func (s *Services) Dashboard(ctx context.Context, ownerID string) (domain.Dashboard, error) {
	projects, err := s.Projects.List(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list projects: %w", err)
	}
	requirements, err := s.Requirements.List(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list requirements: %w", err)
	}
	payments, err := s.Payments.List(ctx, ownerID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list payments: %w", err)
	}
	return domain.Summarize(projects, requirements, payments), nil
}

// PaymentTotals sums the owner's payments by status, optionally for one project.
func (s *Services) PaymentTotals(ctx context.Context, ownerID, projectID string) (domain.PaymentTotals, error) {
	payments, err := s.Payments.List(ctx, ownerID)
	if err != nil {
		return domain.PaymentTotals{}, err
	}
	return domain.SummarizePayments(domain.ForProject(payments, projectID)), nil
}

// ProjectProgress reports how many of a project's requirements are done.
func (s *Services) ProjectProgress(ctx context.Context, ownerID, projectID string) (domain.Progress, error) {
	if _, err := s.Projects.Get(ctx, ownerID, projectID); err != nil {
		return domain.Progress{}, err
	}
	requirements, err := s.Requirements.List(ctx, ownerID)
	if err != nil {
		return domain.Progress{}, err
	}
	return domain.ProjectProgress(projectID, requirements), nil
}

// CompleteMeeting marks a meeting as held.
func (s *Services) CompleteMeeting(ctx context.Context, ownerID, id string) (domain.Meeting, error) {
	return s.Meetings.Update(ctx, ownerID, id, domain.MarkMeetingCompleted())
}
