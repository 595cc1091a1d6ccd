package flatfile

import (
	"context"

	"github.com/rs/xid"
	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

var _ repository.PhotoRepository = (*PhotoStore)(nil)

// PhotoStore is the typed view over the photos table.
type PhotoStore struct {
	t *table[model.Photo]
}

// Create assigns a fresh ID and appends the record.
//
// IDs are xid strings: 20 URL-safe chars, time-prefixed so they sort by
// creation order, and collision-resistant under concurrent requests — the
// same value also serves as the media filename stem, so a duplicate ID
// would mean two photos sharing one GIF on disk.
func (s *PhotoStore) Create(ctx context.Context, photo *model.Photo) error {
	photo.PhotoID = xid.New().String()

	return s.t.Update(ctx, func(photos []model.Photo) ([]model.Photo, error) {
		return append(photos, *photo), nil
	})
}

func (s *PhotoStore) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	photos, err := s.t.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		if p.PhotoID == id {
			return &p, nil
		}
	}
	return nil, apperror.NotFound("photo", id)
}

// List returns all photos in insertion order.
func (s *PhotoStore) List(ctx context.Context) ([]model.Photo, error) {
	photos, err := s.t.Load(ctx)
	if err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	return photos, nil
}
