package repository

import (
	"context"
	"testing"
	"time"

	"github.com/krishkalaria12/imageworld/database/dbtest"
	"github.com/krishkalaria12/imageworld/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(username, email string) *models.Account {
	return &models.Account{Username: username, Email: email, Password: "hash"}
}

func TestAccountRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepo(dbtest.Open(t))

	acc := newAccount("ana", "ana@example.com")
	require.NoError(t, repo.Create(ctx, acc))
	require.NotEmpty(t, acc.ID)
	assert.False(t, acc.CreatedAt.IsZero())

	t.Run("lookups", func(t *testing.T) {
		byID, err := repo.GetByID(ctx, acc.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "ana", byID.Username)

		byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, acc.ID, byEmail.ID)

		byName, err := repo.GetByUsername(ctx, "ana")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, acc.ID, byName.ID)
	})

	t.Run("missing returns nil without error", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, newAccount("other", "ana@example.com"))
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, newAccount("ana", "second@example.com"))
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("upgrade to pro", func(t *testing.T) {
		updated, err := repo.UpdateProStatus(ctx, acc.ID, true, "sub_123", "active")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, updated.IsPro)
		require.NotNil(t, updated.SubscriptionID)
		assert.Equal(t, "sub_123", *updated.SubscriptionID)
		require.NotNil(t, updated.SubscriptionStatus)
		assert.Equal(t, "active", *updated.SubscriptionStatus)
	})

	t.Run("empty subscription id is stored as null", func(t *testing.T) {
		updated, err := repo.UpdateProStatus(ctx, acc.ID, true, "", "active")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Nil(t, updated.SubscriptionID)
	})

	t.Run("upgrade of missing account", func(t *testing.T) {
		updated, err := repo.UpdateProStatus(ctx, "missing", true, "sub", "active")
		require.NoError(t, err)
		assert.Nil(t, updated)
	})
}

func TestProcessingLogRepo(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	accounts := NewAccountRepo(db)
	logs := NewProcessingLogRepo(db)

	owner := newAccount("ana", "ana@example.com")
	require.NoError(t, accounts.Create(ctx, owner))
	other := newAccount("bo", "bo@example.com")
	require.NoError(t, accounts.Create(ctx, other))

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		out := "image/jpeg"
		require.NoError(t, logs.Create(ctx, &models.ProcessingLog{
			UserID:           &owner.ID,
			ToolType:         models.ToolResize,
			InputFormat:      "image/png",
			OutputFormat:     &out,
			FileSizeMB:       1.5,
			ProcessingTimeMs: int64(i),
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, logs.Create(ctx, &models.ProcessingLog{
		UserID:      &other.ID,
		ToolType:    models.ToolCompress,
		InputFormat: "image/jpeg",
		FileSizeMB:  9,
	}))

	got, err := logs.ListRecent(ctx, owner.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(4), got[0].ProcessingTimeMs)
	assert.Equal(t, int64(2), got[2].ProcessingTimeMs)
	for _, l := range got {
		assert.Equal(t, owner.ID, *l.UserID)
		assert.NotEmpty(t, l.ID)
	}

	none, err := logs.ListRecent(ctx, "missing", 100)
	require.NoError(t, err)
	assert.Empty(t, none)
}
