package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/repository"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db       *sqlx.DB
	services *Services
	alice    string
	bob      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	db, err := repository.Open(ctx, repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := repository.NewUserRepository(db)
	alice, err := users.Upsert(ctx, domain.User{Provider: domain.AuthProviderLocal, ProviderID: "alice", Email: "alice@example.com", DisplayName: "alice"})
	require.NoError(t, err)
	bob, err := users.Upsert(ctx, domain.User{Provider: domain.AuthProviderLocal, ProviderID: "bob", Email: "bob@example.com", DisplayName: "bob"})
	require.NoError(t, err)

	services := NewServices(Tables{
		Projects:     repository.NewProjectTable(db),
		Requirements: repository.NewRequirementTable(db),
		Payments:     repository.NewPaymentTable(db),
		Meetings:     repository.NewMeetingTable(db),
	}, NewValidator())

	return &fixture{db: db, services: services, alice: alice.ID, bob: bob.ID}
}

func projectInput(name string) domain.ProjectInput {
	return domain.ProjectInput{
		Name:      ptr(name),
		Client:    ptr("Acme"),
		Status:    ptr(domain.ProjectStatusInProgress),
		StartDate: ptr("2024-01-01"),
		Deadline:  ptr("2024-03-01"),
		Budget:    ptr(5000.0),
	}
}

func (f *fixture) project(t *testing.T, owner, name string) domain.Project {
	t.Helper()
	p, err := f.services.Projects.Create(context.Background(), owner, projectInput(name))
	require.NoError(t, err)
	return p
}

func (f *fixture) payment(t *testing.T, owner, projectID string, amount float64, status domain.PaymentStatus) {
	t.Helper()
	_, err := f.services.Payments.Create(context.Background(), owner, domain.PaymentInput{
		ProjectID:     ptr(projectID),
		Amount:        ptr(amount),
		DateReceived:  ptr("2024-02-01"),
		PaymentMethod: ptr("bKash"),
		Status:        ptr(status),
	})
	require.NoError(t, err)
}
