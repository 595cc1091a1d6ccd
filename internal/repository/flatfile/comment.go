package flatfile

import (
	"context"

	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

var _ repository.CommentRepository = (*CommentStore)(nil)

// CommentStore is the typed view over the append-only comments table.
type CommentStore struct {
	t *table[model.Comment]
}

// Add appends unconditionally. The photo reference is weak: no existence
// check, no cascade when a photo goes away.
func (s *CommentStore) Add(ctx context.Context, comment *model.Comment) error {
	return s.t.Update(ctx, func(comments []model.Comment) ([]model.Comment, error) {
		return append(comments, *comment), nil
	})
}

// ListForPhoto filters by photo ID, preserving insertion order.
func (s *CommentStore) ListForPhoto(ctx context.Context, photoID string) ([]model.Comment, error) {
	comments, err := s.t.Load(ctx)
	if err != nil {
		return nil, err
	}
	matched := []model.Comment{}
	for _, c := range comments {
		if c.PhotoID == photoID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}
