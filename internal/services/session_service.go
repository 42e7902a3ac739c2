package services

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/queue"
	pgrepo "github.com/lectura-ai/lectura/internal/repositories/postgres"
	"github.com/lectura-ai/lectura/internal/storage"
	"github.com/lectura-ai/lectura/internal/utils"
)

// UploadInput carries everything the upload endpoint knows about a new
// session besides the file bytes themselves.
type UploadInput struct {
	UserID           string
	Title            string
	OriginalFileName string
	ContentType      string
	ProcessingMode   string
	Tags             []string
}

// StatusView is the minimal payload for status polling.
type StatusView struct {
	ID               string        `json:"id"`
	Status           models.Status `json:"status"`
	Title            string        `json:"title"`
	OriginalFileName string        `json:"original_file_name"`
}

type SessionStats struct {
	Total        int64           `json:"total_sessions"`
	Completed    int64           `json:"completed_sessions"`
	Failed       int64           `json:"failed_sessions"`
	Pending      int64           `json:"pending_sessions"`
	Transcribing int64           `json:"transcribing_sessions"`
	Analyzing    int64           `json:"analyzing_sessions"`
	LastSession  *models.Session `json:"last_session,omitempty"`
}

type SessionService interface {
	Upload(ctx context.Context, in UploadInput, file io.Reader) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
	Stats(ctx context.Context, userID string) (*SessionStats, error)
	Retry(ctx context.Context, id string) (*models.Session, error)
}

type sessionService struct {
	sessions pgrepo.SessionRepository
	store    storage.MediaStore
	queue    queue.Queue
}

func NewSessionService(sessions pgrepo.SessionRepository, store storage.MediaStore, q queue.Queue) SessionService {
	return &sessionService{sessions: sessions, store: store, queue: q}
}

func parseMode(v string) (models.ProcessingMode, bool) {
	switch models.ProcessingMode(strings.ToUpper(strings.TrimSpace(v))) {
	case models.ModeMeeting:
		return models.ModeMeeting, true
	case models.ModeLecture, "":
		return models.ModeLecture, true
	}
	return "", false
}

func (s *sessionService) Upload(ctx context.Context, in UploadInput, file io.Reader) (*models.Session, error) {
	const op = "SessionService.Upload"

	if in.UserID == "" || in.OriginalFileName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and file are required", nil)
	}
	mode, ok := parseMode(in.ProcessingMode)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "processing_mode must be LECTURE or MEETING", nil)
	}

	fileType := models.FileTypeVideo
	if strings.HasPrefix(in.ContentType, "audio") {
		fileType = models.FileTypeAudio
	}

	id := uuid.NewString()
	key := "sessions/" + in.UserID + "/" + id + path.Ext(in.OriginalFileName)

	storedPath, err := s.store.Save(ctx, key, in.ContentType, file)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store media", err)
	}

	sess := &models.Session{
		ID:               id,
		UserID:           in.UserID,
		Title:            in.Title,
		OriginalFileName: in.OriginalFileName,
		FilePath:         storedPath,
		FileType:         fileType,
		ProcessingMode:   mode,
		Status:           models.StatusPending,
		Tags:             in.Tags,
		UploadTimestamp:  time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	if err := s.queue.Enqueue(ctx, sess.ID); err != nil {
		// The session exists but never got scheduled; it stays PENDING and
		// is recoverable via retry.
		return nil, utils.E(utils.CodeUnavailable, op, "failed to enqueue processing", err)
	}
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	const op = "SessionService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session id is required", nil)
	}
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return sess, nil
}

func (s *sessionService) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	const op = "SessionService.ListByUser"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	out, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return out, nil
}

func (s *sessionService) Stats(ctx context.Context, userID string) (*SessionStats, error) {
	const op = "SessionService.Stats"

	counts, err := s.sessions.CountByStatus(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count sessions", err)
	}

	stats := &SessionStats{
		Completed:    counts[models.StatusCompleted],
		Failed:       counts[models.StatusFailed],
		Pending:      counts[models.StatusPending],
		Transcribing: counts[models.StatusTranscribing],
		Analyzing:    counts[models.StatusAnalyzing],
	}
	for _, n := range counts {
		stats.Total += n
	}

	if userID != "" {
		last, err := s.sessions.LatestByUser(ctx, userID)
		if err == nil {
			stats.LastSession = last
		} else if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to get latest session", err)
		}
	}
	return stats, nil
}

// Retry resets a session to PENDING and schedules a fresh run. Only
// PENDING, FAILED, and TRANSCRIBING are retryable; an in-flight run is not
// stopped, so a retry racing one can produce two concurrent runs of the
// same session (documented behavior, status acts as a soft guard only).
func (s *sessionService) Retry(ctx context.Context, id string) (*models.Session, error) {
	const op = "SessionService.Retry"

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sess.Status.Retryable() {
		return nil, utils.E(utils.CodeInvalidArgument, op,
			"session status '"+string(sess.Status)+"' is not retryable", nil)
	}

	if err := s.sessions.SetStatus(ctx, id, models.StatusPending); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reset status", err)
	}
	sess.Status = models.StatusPending

	if err := s.queue.Enqueue(ctx, id); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to enqueue processing", err)
	}
	return sess, nil
}
