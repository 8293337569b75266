package repository

import (
	"context"
	"testing"
	"time"

	"empanelment/internal/domain"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestAuditRecordAndList(t *testing.T) {
	repo := NewAuditRepository(setupDB(t))
	ctx := context.Background()

	repo.Record(ctx, "APP123456", domain.AuditCreated, nil, "draft", nil)
	time.Sleep(2 * time.Millisecond)
	repo.Record(ctx, "APP123456", domain.AuditUpdated, strptr("draft"), "submitted", strptr("vendor submitted"))
	repo.Record(ctx, "APP999999", domain.AuditCreated, nil, "submitted", nil)

	entries, err := repo.ListByApplication(ctx, "APP123456")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	require.Equal(t, domain.AuditUpdated, entries[0].Action)
	require.Equal(t, "draft", *entries[0].OldStatus)
	require.Equal(t, "submitted", entries[0].NewStatus)
	require.Equal(t, "vendor submitted", *entries[0].Remarks)

	require.Equal(t, domain.AuditCreated, entries[1].Action)
	require.Nil(t, entries[1].OldStatus)
}

func TestAuditListEmpty(t *testing.T) {
	repo := NewAuditRepository(setupDB(t))

	entries, err := repo.ListByApplication(context.Background(), "APP000000")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAuditRecordSwallowsStoreFailure(t *testing.T) {
	db := setupDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&auditModel{}))

	// Must return normally even though the insert cannot succeed.
	repo.Record(ctx, "APP123456", domain.AuditCreated, nil, "draft", nil)
}
