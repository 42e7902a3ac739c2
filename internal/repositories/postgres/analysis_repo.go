package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/utils"
)

type AnalysisRepository interface {
	// Upsert writes the one result row for a session; a retried run that
	// completes again overwrites the previous result in place.
	Upsert(ctx context.Context, res *models.AnalysisResult) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.AnalysisResult, error)
}

type analysisRepo struct {
	db *gorm.DB
}

func NewAnalysisRepo(db *gorm.DB) AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Upsert(ctx context.Context, res *models.AnalysisResult) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"transcription_text", "summary_text", "notes_text",
				"suggestions_resources_text", "processed_timestamp",
				"llm_model_used", "prompt_template_version",
			}),
		}).
		Create(res).Error
}

func (r *analysisRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.AnalysisResult, error) {
	var res models.AnalysisResult
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Take(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &res, err
}
