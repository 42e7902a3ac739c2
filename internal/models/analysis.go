package models

import "time"

// AnalysisResult is the structured output of a completed run, at most one
// per session. Retries overwrite the row in place (upsert on session_id).
type AnalysisResult struct {
	SessionID                string    `gorm:"column:session_id;type:uuid;primaryKey" json:"session_id"`
	TranscriptionText        string    `gorm:"column:transcription_text;type:text" json:"transcription_text"`
	SummaryText              string    `gorm:"column:summary_text;type:text" json:"summary_text"`
	NotesText                string    `gorm:"column:notes_text;type:text" json:"notes_text"`
	SuggestionsResourcesText string    `gorm:"column:suggestions_resources_text;type:text" json:"suggestions_resources_text"`
	ProcessedTimestamp       time.Time `gorm:"column:processed_timestamp;type:timestamptz" json:"processed_timestamp"`
	LLMModelUsed             string    `gorm:"column:llm_model_used;type:text" json:"llm_model_used"`
	PromptTemplateVersion    string    `gorm:"column:prompt_template_version;type:text" json:"prompt_template_version"`
}

func (AnalysisResult) TableName() string { return "analysis_results" }
