package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/utils"
)

type memSessionRepo struct {
	byID      map[string]*models.Session
	created   []*models.Session
	statusLog []models.Status
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{byID: map[string]*models.Session{}}
}

func (r *memSessionRepo) Create(ctx context.Context, s *models.Session) error {
	cp := *s
	r.byID[s.ID] = &cp
	r.created = append(r.created, &cp)
	return nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range r.byID {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSessionRepo) LatestByUser(ctx context.Context, userID string) (*models.Session, error) {
	return nil, utils.ErrNotFound
}

func (r *memSessionRepo) SetStatus(ctx context.Context, id string, status models.Status) error {
	s, ok := r.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	s.Status = status
	r.statusLog = append(r.statusLog, status)
	return nil
}

func (r *memSessionRepo) SetDuration(ctx context.Context, id string, seconds int64) error {
	return nil
}

func (r *memSessionRepo) CountByStatus(ctx context.Context, userID string) (map[models.Status]int64, error) {
	out := map[models.Status]int64{}
	for _, s := range r.byID {
		if userID == "" || s.UserID == userID {
			out[s.Status]++
		}
	}
	return out, nil
}

type memStore struct {
	saved map[string]string
}

func (s *memStore) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if s.saved == nil {
		s.saved = map[string]string{}
	}
	b, _ := io.ReadAll(r)
	s.saved[key] = string(b)
	return key, nil
}

func (s *memStore) Resolve(ctx context.Context, key string) (string, func(), error) {
	return "", nil, errors.New("not resolvable in tests")
}

func (s *memStore) Remove(ctx context.Context, key string) error { return nil }

type memQueue struct {
	enqueued []string
	err      error
}

func (q *memQueue) Enqueue(ctx context.Context, sessionID string) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, sessionID)
	return nil
}

func appCode(t *testing.T, err error) utils.Code {
	t.Helper()
	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	return ae.Code
}

func TestUploadCreatesPendingAndEnqueues(t *testing.T) {
	repo := newMemSessionRepo()
	store := &memStore{}
	q := &memQueue{}
	svc := NewSessionService(repo, store, q)

	sess, err := svc.Upload(context.Background(), UploadInput{
		UserID:           "user-1",
		Title:            "Linear Algebra 03",
		OriginalFileName: "lecture.mp3",
		ContentType:      "audio/mpeg",
		ProcessingMode:   "lecture",
		Tags:             []string{"math"},
	}, strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, sess.Status)
	assert.Equal(t, models.FileTypeAudio, sess.FileType)
	assert.Equal(t, models.ModeLecture, sess.ProcessingMode)
	assert.Equal(t, "user-1", sess.UserID)
	assert.NotEmpty(t, sess.ID)

	assert.Equal(t, []string{sess.ID}, q.enqueued)
	assert.Contains(t, store.saved, sess.FilePath)
	require.Len(t, repo.created, 1)
}

func TestUploadVideoContentType(t *testing.T) {
	svc := NewSessionService(newMemSessionRepo(), &memStore{}, &memQueue{})

	sess, err := svc.Upload(context.Background(), UploadInput{
		UserID:           "user-1",
		OriginalFileName: "lecture.mp4",
		ContentType:      "video/mp4",
	}, strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.Equal(t, models.FileTypeVideo, sess.FileType)
	assert.Equal(t, models.ModeLecture, sess.ProcessingMode)
}

func TestUploadRejectsBadMode(t *testing.T) {
	svc := NewSessionService(newMemSessionRepo(), &memStore{}, &memQueue{})

	_, err := svc.Upload(context.Background(), UploadInput{
		UserID:           "user-1",
		OriginalFileName: "f.mp3",
		ProcessingMode:   "SEMINAR",
	}, strings.NewReader("x"))

	assert.Equal(t, utils.CodeInvalidArgument, appCode(t, err))
}

func TestUploadEnqueueFailureLeavesSessionPending(t *testing.T) {
	repo := newMemSessionRepo()
	q := &memQueue{err: errors.New("redis down")}
	svc := NewSessionService(repo, &memStore{}, q)

	_, err := svc.Upload(context.Background(), UploadInput{
		UserID:           "user-1",
		OriginalFileName: "f.mp3",
		ContentType:      "audio/mpeg",
	}, strings.NewReader("x"))

	assert.Equal(t, utils.CodeUnavailable, appCode(t, err))

	// The session row survives in PENDING so retry can rescue it.
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.StatusPending, repo.created[0].Status)
}

func TestRetryAcceptsRetryableStatuses(t *testing.T) {
	for _, status := range []models.Status{models.StatusPending, models.StatusFailed, models.StatusTranscribing} {
		repo := newMemSessionRepo()
		repo.byID["s1"] = &models.Session{ID: "s1", UserID: "u1", Status: status}
		q := &memQueue{}
		svc := NewSessionService(repo, &memStore{}, q)

		sess, err := svc.Retry(context.Background(), "s1")
		require.NoErrorf(t, err, "status %s", status)

		assert.Equal(t, models.StatusPending, sess.Status)
		assert.Equal(t, []string{"s1"}, q.enqueued)
		assert.Equal(t, models.StatusPending, repo.byID["s1"].Status)
	}
}

func TestRetryRejectsNonRetryableStatuses(t *testing.T) {
	for _, status := range []models.Status{models.StatusAnalyzing, models.StatusCompleted} {
		repo := newMemSessionRepo()
		repo.byID["s1"] = &models.Session{ID: "s1", UserID: "u1", Status: status}
		q := &memQueue{}
		svc := NewSessionService(repo, &memStore{}, q)

		_, err := svc.Retry(context.Background(), "s1")
		require.Errorf(t, err, "status %s", status)

		assert.Equal(t, utils.CodeInvalidArgument, appCode(t, err))
		assert.Contains(t, err.Error(), "not retryable")

		// Rejection must not touch the queue or the stored status.
		assert.Empty(t, q.enqueued)
		assert.Equal(t, status, repo.byID["s1"].Status)
	}
}

func TestRetryUnknownSession(t *testing.T) {
	svc := NewSessionService(newMemSessionRepo(), &memStore{}, &memQueue{})

	_, err := svc.Retry(context.Background(), "missing")
	assert.Equal(t, utils.CodeNotFound, appCode(t, err))
}

func TestStatsCountsPerStatus(t *testing.T) {
	repo := newMemSessionRepo()
	repo.byID["a"] = &models.Session{ID: "a", UserID: "u1", Status: models.StatusCompleted}
	repo.byID["b"] = &models.Session{ID: "b", UserID: "u1", Status: models.StatusCompleted}
	repo.byID["c"] = &models.Session{ID: "c", UserID: "u1", Status: models.StatusFailed}
	repo.byID["d"] = &models.Session{ID: "d", UserID: "u2", Status: models.StatusPending}
	svc := NewSessionService(repo, &memStore{}, &memQueue{})

	stats, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(0), stats.Pending)
}
