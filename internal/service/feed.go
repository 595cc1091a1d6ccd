package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/gifboard/internal/apperror"
	"github.com/sakif/gifboard/internal/model"
	"github.com/sakif/gifboard/internal/repository"
)

// MaxPhotoNameLength bounds the display name of an upload.
const MaxPhotoNameLength = 100

// FeedService handles photos, comments, and photo votes.
type FeedService struct {
	photos   repository.PhotoRepository
	comments repository.CommentRepository
	votes    repository.VoteRepository
	logger   *slog.Logger
}

func NewFeedService(
	photos repository.PhotoRepository,
	comments repository.CommentRepository,
	votes repository.VoteRepository,
	logger *slog.Logger,
) *FeedService {
	return &FeedService{
		photos:   photos,
		comments: comments,
		votes:    votes,
		logger:   logger,
	}
}

// PhotoDetail is the read model for a single photo: the record itself plus
// its comments and vote tallies, all derived from the current table
// contents at read time.
type PhotoDetail struct {
	model.Photo
	Comments []model.Comment `json:"comments"`
	model.Tally
}

// CreatePhoto validates the display name and appends the photo record. The
// caller is responsible for storing the media bytes under the returned
// PhotoID — media storage is outside this layer.
func (s *FeedService) CreatePhoto(ctx context.Context, name string) (*model.Photo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "photo name is required")
	}
	if len(name) > MaxPhotoNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("photo name must be %d characters or less", MaxPhotoNameLength))
	}

	photo := &model.Photo{Name: name}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}

	s.logger.Info("photo created",
		slog.String("photoID", photo.PhotoID),
		slog.String("name", photo.Name),
	)
	return photo, nil
}

// ListPhotos returns all photos in upload order.
func (s *FeedService) ListPhotos(ctx context.Context) ([]model.Photo, error) {
	return s.photos.List(ctx)
}

// GetPhoto assembles the photo detail: record, comments in insertion order,
// and up/down tallies counted from the votes table. Nothing is cached; the
// counts always reflect the latest durably-written snapshot.
func (s *FeedService) GetPhoto(ctx context.Context, photoID string) (*PhotoDetail, error) {
	photoID = strings.TrimSpace(photoID)
	if photoID == "" {
		return nil, apperror.ValidationFailed("photoId", "photo ID is required")
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListForPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}

	tally, err := s.votes.TallyForPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}

	return &PhotoDetail{
		Photo:    *photo,
		Comments: comments,
		Tally:    tally,
	}, nil
}

// AddComment appends a comment. The photo reference stays weak — no
// existence check, matching the store's tolerance for dangling references.
func (s *FeedService) AddComment(ctx context.Context, photoID, userID, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("comment", "comment is required")
	}

	comment := &model.Comment{
		UserID:  userID,
		PhotoID: photoID,
		Text:    text,
	}
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("photoID", photoID),
		slog.String("userID", userID),
	)
	return comment, nil
}

// CastVote records an up or down vote, replacing the user's prior vote on
// the photo if one exists.
func (s *FeedService) CastVote(ctx context.Context, userID, photoID, voteType string) (*model.Vote, error) {
	if voteType != model.VoteUp && voteType != model.VoteDown {
		return nil, apperror.ValidationFailed("voteType", "invalid vote type")
	}

	vote := &model.Vote{
		UserID:   userID,
		PhotoID:  photoID,
		VoteType: voteType,
	}
	if err := s.votes.Cast(ctx, vote); err != nil {
		return nil, err
	}

	s.logger.Info("vote cast",
		slog.String("photoID", photoID),
		slog.String("userID", userID),
		slog.String("voteType", voteType),
	)
	return vote, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
