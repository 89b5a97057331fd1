package briefstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediabrief/internal/briefstore"
	"mediabrief/internal/domain"
	"mediabrief/internal/port"
	"mediabrief/mocks"
)

func TestMemoryStore_AppendAndList(t *testing.T) {
	s := briefstore.NewMemoryStore()
	ctx := context.Background()

	items, err := s.ListItems(ctx, "brief-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.AppendItems(ctx, "brief-1", []domain.BriefItem{{ID: "a"}}))
	require.NoError(t, s.AppendItems(ctx, "brief-1", []domain.BriefItem{{ID: "b"}, {ID: "c"}}))

	items, err = s.ListItems(ctx, "brief-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(items))

	items[0].ID = "mutated"
	again, _ := s.ListItems(ctx, "brief-1")
	assert.Equal(t, "a", again[0].ID)

	other, _ := s.ListItems(ctx, "brief-2")
	assert.Empty(t, other)
}

func ids(items []domain.BriefItem) []string {
	out := []string{}
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestObjectStore_ListItems_Missing(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bucket", "briefs/b1/items.json").
		Return(nil, fmt.Errorf("s3 download: %w", domain.ErrNotFound))

	items, err := briefstore.NewObjectStore(storage, "bucket").ListItems(context.Background(), "b1")

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestObjectStore_ListItems_Error(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bucket", "briefs/b1/items.json").
		Return(nil, errors.New("access denied"))

	_, err := briefstore.NewObjectStore(storage, "bucket").ListItems(context.Background(), "b1")

	assert.ErrorContains(t, err, "access denied")
}

func TestObjectStore_AppendItems(t *testing.T) {
	existing, _ := json.Marshal(map[string]interface{}{
		"briefId": "b1",
		"items":   []domain.BriefItem{{ID: "old", Status: domain.BriefItemStatusLive}},
	})
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bucket", "briefs/b1/items.json").Return(existing, nil)

	var uploaded []byte
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "bucket" && in.Key == "briefs/b1/items.json" && in.ContentType == "application/json"
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(port.UploadInput)
		uploaded, _ = io.ReadAll(in.Body)
	}).Return(&port.UploadOutput{ETag: "etag-1"}, nil)

	err := briefstore.NewObjectStore(storage, "bucket").AppendItems(context.Background(), "b1",
		[]domain.BriefItem{{ID: "new", Status: domain.BriefItemStatusBriefed}})

	require.NoError(t, err)
	var doc struct {
		BriefID string             `json:"briefId"`
		Items   []domain.BriefItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(uploaded, &doc))
	assert.Equal(t, "b1", doc.BriefID)
	assert.Equal(t, []string{"old", "new"}, ids(doc.Items))
	assert.Equal(t, domain.BriefItemStatusLive, doc.Items[0].Status)
}

func TestObjectStore_AppendItems_UploadFails(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Download", mock.Anything, "bucket", "briefs/b1/items.json").Return(nil, domain.ErrNotFound)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	err := briefstore.NewObjectStore(storage, "bucket").AppendItems(context.Background(), "b1", []domain.BriefItem{{ID: "x"}})

	assert.ErrorContains(t, err, "storing brief b1 items")
}
