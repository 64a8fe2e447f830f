package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/notify"
	"github.com/sumire/freelance/internal/session"
)

func TestWorkspaceDashboard(t *testing.T) {
	projects := newMemSource(buildProject)
	requirements := newMemSource(func(id string, in domain.RequirementInput) domain.Requirement {
		return domain.Requirement{ID: id}
	})
	payments := newMemSource(func(id string, in domain.PaymentInput) domain.Payment {
		return domain.Payment{ID: id}
	})
	meetings := newMemSource(func(id string, in domain.MeetingInput) domain.Meeting {
		m := domain.Meeting{ID: id}
		if in.Status != nil {
			m.Status = *in.Status
		}
		return m
	})

	projects.seed("u1",
		domain.Project{ID: "p1", Name: "Site", Status: domain.ProjectStatusInProgress},
		domain.Project{ID: "p2", Name: "App", Status: domain.ProjectStatusCompleted},
	)
	requirements.seed("u1",
		domain.Requirement{ID: "r1", ProjectID: "p1", Status: domain.RequirementStatusPending},
		domain.Requirement{ID: "r2", ProjectID: "p1", Status: domain.RequirementStatusDone},
	)
	payments.seed("u1",
		domain.Payment{ID: "pay1", ProjectID: "p1", Amount: 2500, Status: domain.PaymentStatusPaid},
		domain.Payment{ID: "pay2", ProjectID: "p1", Amount: 8000, Status: domain.PaymentStatusPaid},
		domain.Payment{ID: "pay3", ProjectID: "p2", Amount: 1750, Status: domain.PaymentStatusPending},
	)
	meetings.seed("u1", domain.Meeting{ID: "m1", ProjectID: "p1", Status: domain.MeetingStatusUpcoming})

	sess := session.New()
	w := New(Sources{
		Projects:     projects,
		Requirements: requirements,
		Payments:     payments,
		Meetings:     meetings,
	}, sess, &notify.Recorder{})
	w.Watch(context.Background())
	defer w.Close()

	assert.True(t, w.Loading())
	sess.SignIn(domain.Identity{UserID: "u1"})
	assert.False(t, w.Loading())

	d := w.Dashboard()
	assert.Equal(t, 1, d.ActiveProjects)
	assert.Equal(t, 1, d.CompletedProjects)
	assert.Equal(t, 1, d.PendingRequirements)
	assert.Equal(t, 12250.0, d.TotalEarnings)
	assert.Equal(t, 1, d.PendingPayments)
	require.Len(t, d.RecentRequirements, 2)
	assert.Equal(t, "Site", d.RecentRequirements[0].ProjectName)

	assert.Equal(t, domain.PaymentTotals{TotalEarnings: 10500, PendingAmount: 1750}, w.PaymentTotals(domain.AllProjects))
	assert.Equal(t, domain.PaymentTotals{PendingAmount: 1750}, w.PaymentTotals("p2"))
	assert.Equal(t, domain.Progress{Total: 2, Done: 1, Percent: 50}, w.ProjectProgress("p1"))

	done, err := w.CompleteMeeting(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingStatusCompleted, done.Status)
	split := w.MeetingSplit(domain.AllProjects)
	assert.Empty(t, split.Upcoming)
	assert.Len(t, split.Completed, 1)

	require.NoError(t, w.Refresh(context.Background()))
}
