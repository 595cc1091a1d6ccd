package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gifboard/internal/auth"
	"github.com/sakif/gifboard/internal/service"
)

// maxUploadBytes bounds the multipart form we are willing to buffer.
const maxUploadBytes = 10 << 20 // 10 MiB

// PhotoHandler serves the photo feed: listing, detail, upload, comments,
// and votes.
//
// The handler owns the media directory because media storage is an HTTP
// concern here, not part of the record store: the upload endpoint writes
// the GIF bytes to {mediaDir}/{photoId}.gif and the static file server
// serves them back. The photos table never sees the bytes.
type PhotoHandler struct {
	feed     *service.FeedService
	mediaDir string
	logger   *slog.Logger
}

func NewPhotoHandler(feed *service.FeedService, mediaDir string, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{feed: feed, mediaDir: mediaDir, logger: logger}
}

// HandleList returns every photo record.
//
// HTTP: GET /api/photos
func (h *PhotoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	photos, err := h.feed.ListPhotos(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// HandleGet returns one photo with its comments and vote tallies.
//
// HTTP: GET /api/photos/{id}
func (h *PhotoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.feed.GetPhoto(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleUpload accepts a multipart GIF upload and creates the photo record.
//
// HTTP: POST /api/photos (multipart/form-data: "photo" file, "name" field)
// Auth: required
//
// Only image/gif is accepted; the first bytes are sniffed rather than
// trusting the client's declared content type. The record is created first
// so its ID names the media file.
func (h *PhotoHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "no photo uploaded"})
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "no photo uploaded"})
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if http.DetectContentType(head[:n]) != "image/gif" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "only GIF files are allowed"})
		return
	}

	photo, err := h.feed.CreatePhoto(r.Context(), r.FormValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.saveMedia(photo.PhotoID, head[:n], file); err != nil {
		h.logger.Error("failed to store photo media",
			slog.String("photoID", photo.PhotoID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "failed to store photo"})
		return
	}

	writeJSON(w, http.StatusOK, photo)
}

// saveMedia writes the sniffed head plus the remainder of the upload to
// {mediaDir}/{photoId}.gif.
func (h *PhotoHandler) saveMedia(photoID string, head []byte, rest io.Reader) error {
	dst, err := os.Create(filepath.Join(h.mediaDir, photoID+".gif"))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return err
	}
	if _, err := io.Copy(dst, rest); err != nil {
		return err
	}
	return dst.Sync()
}

// HandleComment appends a comment to a photo.
//
// HTTP: POST /api/photos/{id}/comments
// Auth: required
func (h *PhotoHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	comment, err := h.feed.AddComment(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleVote casts or replaces the caller's vote on a photo.
//
// HTTP: POST /api/photos/{id}/vote
// Auth: required
func (h *PhotoHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req struct {
		VoteType string `json:"voteType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	vote, err := h.feed.CastVote(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.VoteType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vote)
}
