package port

import (
	"context"

	"mediabrief/internal/domain"
)

// BriefStore is the external collaborator holding each brief's deliverables.
// It offers no concurrency control; callers treat it as append-only.
type BriefStore interface {
	ListItems(ctx context.Context, briefID string) ([]domain.BriefItem, error)
	AppendItems(ctx context.Context, briefID string, items []domain.BriefItem) error
}
