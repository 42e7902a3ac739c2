package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/utils"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
	LatestByUser(ctx context.Context, userID string) (*models.Session, error)
	SetStatus(ctx context.Context, id string, status models.Status) error
	SetDuration(ctx context.Context, id string, seconds int64) error
	CountByStatus(ctx context.Context, userID string) (map[models.Status]int64, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	var out []models.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_timestamp ASC").
		Find(&out).Error
	return out, err
}

func (r *sessionRepo) LatestByUser(ctx context.Context, userID string) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_timestamp DESC").
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *sessionRepo) SetStatus(ctx context.Context, id string, status models.Status) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *sessionRepo) SetDuration(ctx context.Context, id string, seconds int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("duration_seconds", seconds).Error
}

func (r *sessionRepo) CountByStatus(ctx context.Context, userID string) (map[models.Status]int64, error) {
	type row struct {
		Status models.Status
		N      int64
	}
	var rows []row

	q := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Select("status, count(*) as n").
		Group("status")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[models.Status]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
