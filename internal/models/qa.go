package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QAExchange is one question asked against a completed session and the
// model's answer. Stored in Mongo (qa_exchanges collection).
type QAExchange struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Question  string             `bson:"question" json:"question"`
	Answer    string             `bson:"answer" json:"answer"`
	Model     string             `bson:"model" json:"model"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
