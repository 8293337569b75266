package repository

import (
	"context"
	"regexp"
	"testing"

	"empanelment/internal/database"
	"empanelment/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func validApplication(department string, isDraft bool) *domain.Application {
	return &domain.Application{
		Department:             department,
		ItemCategory:           "Construction Materials",
		ItemName:               "Cement",
		ItemDescription:        "OPC 53 grade cement",
		TechnicalSpecs:         "IS 12269 compliant",
		ComplianceRequirements: "ISO 9001",
		IsDraft:                isDraft,
	}
}

func TestApplicationCreateDraft(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	app := validApplication("Civil", true)
	require.NoError(t, repo.Create(ctx, app))

	require.Equal(t, domain.StatusDraft, app.Status)
	require.Nil(t, app.SubmittedAt)
	require.True(t, app.IsDraft)
	require.Regexp(t, regexp.MustCompile(`^APP\d{6}$`), app.ApplicationID)
	require.False(t, app.CreatedAt.IsZero())
}

func TestApplicationCreateSubmitted(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	app := validApplication("Civil", false)
	require.NoError(t, repo.Create(ctx, app))

	require.Equal(t, domain.StatusSubmitted, app.Status)
	require.NotNil(t, app.SubmittedAt)
}

func TestApplicationCreateGetRoundTrip(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	app := validApplication("Electrical", false)
	app.EstimatedValue = "250000"
	require.NoError(t, repo.Create(ctx, app))

	got, err := repo.GetByID(ctx, app.ApplicationID)
	require.NoError(t, err)
	require.Equal(t, app.ApplicationID, got.ApplicationID)
	require.Equal(t, app.Department, got.Department)
	require.Equal(t, app.EstimatedValue, got.EstimatedValue)
	require.Equal(t, app.Status, got.Status)
	require.WithinDuration(t, app.CreatedAt, got.CreatedAt, 0)
}

func TestApplicationGetNotFound(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))

	_, err := repo.GetByID(context.Background(), "APP000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplicationUpdate(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	app := validApplication("Civil", true)
	require.NoError(t, repo.Create(ctx, app))

	updated, err := repo.Update(ctx, app.ApplicationID, map[string]any{
		"item_name": "Ready-mix concrete",
		"status":    "submitted",
	})
	require.NoError(t, err)
	require.Equal(t, "Ready-mix concrete", updated.ItemName)
	require.Equal(t, domain.StatusSubmitted, updated.Status)
	require.True(t, updated.UpdatedAt.After(app.UpdatedAt) || updated.UpdatedAt.Equal(app.UpdatedAt))
}

func TestApplicationUpdateEmptyPatch(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	app := validApplication("Civil", true)
	require.NoError(t, repo.Create(ctx, app))

	_, err := repo.Update(ctx, app.ApplicationID, map[string]any{})
	require.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestApplicationUpdateIgnoresProtectedColumns(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	app := validApplication("Civil", true)
	require.NoError(t, repo.Create(ctx, app))

	// A patch touching only protected columns is effectively empty.
	_, err := repo.Update(ctx, app.ApplicationID, map[string]any{
		"application_id": "APP999999",
		"id":             42,
	})
	require.ErrorIs(t, err, ErrEmptyUpdate)

	got, err := repo.GetByID(ctx, app.ApplicationID)
	require.NoError(t, err)
	require.Equal(t, app.ApplicationID, got.ApplicationID)
}

func TestApplicationList(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, validApplication("Civil", true)))
	}
	require.NoError(t, repo.Create(ctx, validApplication("Civil", false)))
	require.NoError(t, repo.Create(ctx, validApplication("Electrical", true)))

	// Status filter: total counts all matches regardless of limit.
	drafts, total, err := repo.List(ctx, ApplicationFilter{Status: "draft", Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	require.EqualValues(t, 4, total)
	for _, a := range drafts {
		require.Equal(t, domain.StatusDraft, a.Status)
	}

	// Newest first.
	require.True(t, !drafts[0].CreatedAt.Before(drafts[1].CreatedAt))

	// Conjunctive filters.
	civilDrafts, total, err := repo.List(ctx, ApplicationFilter{Department: "Civil", Status: "draft", Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, civilDrafts, 3)
	require.EqualValues(t, 3, total)

	// Defaults applied for zero page/limit.
	all, total, err := repo.List(ctx, ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	require.EqualValues(t, 5, total)
}

func TestApplicationDelete(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	app := validApplication("Civil", true)
	require.NoError(t, repo.Create(ctx, app))
	require.NoError(t, repo.Delete(ctx, app.ApplicationID))

	_, err := repo.GetByID(ctx, app.ApplicationID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplicationIDsUniqueUnderBurst(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		app := validApplication("Civil", true)
		require.NoError(t, repo.Create(ctx, app))
		require.False(t, seen[app.ApplicationID], "duplicate id %s", app.ApplicationID)
		seen[app.ApplicationID] = true
	}
}
