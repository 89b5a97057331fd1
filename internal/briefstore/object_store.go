package briefstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mediabrief/internal/domain"
	"mediabrief/internal/port"
)

// itemsDocument is the JSON object stored per brief.
type itemsDocument struct {
	BriefID   string             `json:"briefId"`
	Items     []domain.BriefItem `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ObjectStore keeps each brief's items as one JSON document in object storage
// at briefs/<briefID>/items.json. Appends are read-modify-write with no
// locking across processes.
type ObjectStore struct {
	storage port.ObjectStorage
	bucket  string
	now     func() time.Time
}

// NewObjectStore creates a brief store over object storage.
func NewObjectStore(storage port.ObjectStorage, bucket string) *ObjectStore {
	return &ObjectStore{storage: storage, bucket: bucket, now: time.Now}
}

// ItemsKey returns the object key of a brief's items document.
func ItemsKey(briefID string) string {
	return fmt.Sprintf("briefs/%s/items.json", briefID)
}

func (s *ObjectStore) ListItems(ctx context.Context, briefID string) ([]domain.BriefItem, error) {
	data, err := s.storage.Download(ctx, s.bucket, ItemsKey(briefID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.BriefItem{}, nil
		}
		return nil, fmt.Errorf("loading brief %s items: %w", briefID, err)
	}

	var doc itemsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding brief %s items: %w", briefID, err)
	}
	if doc.Items == nil {
		doc.Items = []domain.BriefItem{}
	}
	return doc.Items, nil
}

func (s *ObjectStore) AppendItems(ctx context.Context, briefID string, items []domain.BriefItem) error {
	existing, err := s.ListItems(ctx, briefID)
	if err != nil {
		return err
	}

	doc := itemsDocument{
		BriefID:   briefID,
		Items:     append(existing, items...),
		UpdatedAt: s.now().UTC(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding brief %s items: %w", briefID, err)
	}

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         ItemsKey(briefID),
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
		Size:        int64(len(body)),
	})
	if err != nil {
		return fmt.Errorf("storing brief %s items: %w", briefID, err)
	}
	log.Info().
		Str("brief_id", briefID).
		Int("appended", len(items)).
		Int("total", len(doc.Items)).
		Str("etag", out.ETag).
		Msg("briefstore.ObjectStore: items appended")
	return nil
}
