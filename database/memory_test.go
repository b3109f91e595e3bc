package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telsim/onboard/model"
)

func newApplication(userID string) *model.Application {
	return &model.Application{
		UserID:     userID,
		WizardName: "kyc",
		Sections: model.Sections{
			"personalDetails": {"fullName": "Arjun Sharma"},
			"telecomUsage":    {"connections": "1"},
		},
	}
}

func TestMemoryIDsAreMaxPlusOne(t *testing.T) {
	ds := NewMemoryDataSource()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		created, err := ds.CreateApplication(ctx, newApplication("user_1"))
		require.NoError(t, err)
		assert.Equal(t, want, created.ID)
	}

	// deleting the highest record frees its id for reuse
	require.NoError(t, ds.DeleteApplication(ctx, 3))
	created, err := ds.CreateApplication(ctx, newApplication("user_1"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	// deleting a lower record does not disturb the sequence
	require.NoError(t, ds.DeleteApplication(ctx, 1))
	created, err = ds.CreateApplication(ctx, newApplication("user_1"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
}

func TestMemoryGetReturnsCopies(t *testing.T) {
	ds := NewMemoryDataSource()
	ctx := context.Background()

	created, err := ds.CreateApplication(ctx, newApplication("user_1"))
	require.NoError(t, err)

	got, err := ds.GetApplication(ctx, created.ID)
	require.NoError(t, err)
	got.Status = model.StatusApproved

	again, err := ds.GetApplication(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, again.Status)
}

func TestMemoryListAndFilter(t *testing.T) {
	ds := NewMemoryDataSource()
	ctx := context.Background()

	first, err := ds.CreateApplication(ctx, newApplication("user_1"))
	require.NoError(t, err)
	_, err = ds.CreateApplication(ctx, newApplication("user_2"))
	require.NoError(t, err)

	first.Status = model.StatusApproved
	require.NoError(t, ds.UpdateApplication(ctx, first))

	approved, err := ds.GetAllApplications(ctx, 10, 0, model.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].ID)

	all, err := ds.GetAllApplications(ctx, 10, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := ds.GetApplicationsByUser(ctx, "user_2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "user_2", mine[0].UserID)
}

func TestMemoryListLimitMatchesSQLSemantics(t *testing.T) {
	ds := NewMemoryDataSource()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := ds.CreateApplication(ctx, newApplication("user_1"))
		require.NoError(t, err)
	}

	// LIMIT 0 returns no rows in postgres; the memory driver agrees
	none, err := ds.GetAllApplications(ctx, 0, 0, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	two, err := ds.GetAllApplications(ctx, 2, 0, "")
	require.NoError(t, err)
	assert.Len(t, two, 2)

	rest, err := ds.GetAllApplications(ctx, 10, 2, "")
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestMemoryDocuments(t *testing.T) {
	ds := NewMemoryDataSource()
	ctx := context.Background()

	created, err := ds.CreateApplication(ctx, newApplication("user_1"))
	require.NoError(t, err)

	err = ds.AttachDocument(ctx, created.ID, model.Document{DocumentID: "doc_1", Field: "panCard"})
	require.NoError(t, err)

	docs, err := ds.GetDocuments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "panCard", docs[0].Field)

	err = ds.AttachDocument(ctx, 99, model.Document{DocumentID: "doc_2"})
	assert.Error(t, err)
}
