package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type FileType string

const (
	FileTypeAudio FileType = "AUDIO"
	FileTypeVideo FileType = "VIDEO"
)

type ProcessingMode string

const (
	ModeLecture ProcessingMode = "LECTURE"
	ModeMeeting ProcessingMode = "MEETING"
)

// Session is one uploaded media item and its processing state. The status
// column is only ever written by the worker (during a run) and by the retry
// endpoint; everything else is immutable after upload.
type Session struct {
	ID               string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID           string         `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title            string         `gorm:"column:title;type:text" json:"title"`
	OriginalFileName string         `gorm:"column:original_file_name;type:text" json:"original_file_name"`
	FilePath         string         `gorm:"column:file_path;type:text" json:"-"` // media store key, not exposed
	FileType         FileType       `gorm:"column:file_type;type:text" json:"file_type"`
	DurationSeconds  int64          `gorm:"column:duration_seconds;type:bigint" json:"duration_seconds"`
	ProcessingMode   ProcessingMode `gorm:"column:processing_mode;type:text" json:"processing_mode"`
	Status           Status         `gorm:"column:status;type:text;index" json:"status"`

	Tags    pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`
	Options datatypes.JSON `gorm:"column:options;type:jsonb" json:"options,omitempty"`

	UploadTimestamp time.Time `gorm:"column:upload_timestamp;type:timestamptz" json:"upload_timestamp"`
}

func (Session) TableName() string { return "sessions" }
