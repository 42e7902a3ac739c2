package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lectura-ai/lectura/internal/models"
)

type QARepository interface {
	Insert(ctx context.Context, qa *models.QAExchange) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.QAExchange, error)
}

type qaRepo struct {
	col *mongo.Collection
}

func NewQARepo(db *mongo.Database) QARepository {
	return &qaRepo{col: db.Collection("qa_exchanges")}
}

func (r *qaRepo) Insert(ctx context.Context, qa *models.QAExchange) error {
	if qa.CreatedAt.IsZero() {
		qa.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, qa)
	return err
}

func (r *qaRepo) ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.QAExchange, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.QAExchange
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
