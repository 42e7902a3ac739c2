package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lectura-ai/lectura/internal/cache"
	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/prompt"
	"github.com/lectura-ai/lectura/internal/providers/llm"
	mongorepo "github.com/lectura-ai/lectura/internal/repositories/mongo"
	pgrepo "github.com/lectura-ai/lectura/internal/repositories/postgres"
	"github.com/lectura-ai/lectura/internal/utils"
)

// SearchMatches reports which result fields contain the query.
type SearchMatches struct {
	Transcription bool `json:"transcription_matches"`
	Summary       bool `json:"summary_matches"`
	Notes         bool `json:"notes_matches"`
	Suggestions   bool `json:"suggestions_matches"`
}

func (m SearchMatches) Any() bool {
	return m.Transcription || m.Summary || m.Notes || m.Suggestions
}

type AnalysisService interface {
	// Results returns the full analysis for a COMPLETED session; any other
	// status yields a not-yet-completed error.
	Results(ctx context.Context, sess *models.Session) (*models.AnalysisResult, error)
	Search(ctx context.Context, sess *models.Session, query string) (SearchMatches, error)
	Ask(ctx context.Context, sess *models.Session, question, userContext string) (*models.QAExchange, error)
	History(ctx context.Context, sessionID string, limit int64) ([]models.QAExchange, error)
}

type analysisService struct {
	results pgrepo.AnalysisRepository
	qa      mongorepo.QARepository
	llm     llm.Provider
	cache   cache.Cache

	resultTTL time.Duration
}

func NewAnalysisService(results pgrepo.AnalysisRepository, qa mongorepo.QARepository, provider llm.Provider, c cache.Cache) AnalysisService {
	return &analysisService{
		results:   results,
		qa:        qa,
		llm:       provider,
		cache:     c,
		resultTTL: 10 * time.Minute,
	}
}

func (s *analysisService) Results(ctx context.Context, sess *models.Session) (*models.AnalysisResult, error) {
	const op = "AnalysisService.Results"

	if sess == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session is required", nil)
	}
	if sess.Status != models.StatusCompleted {
		return nil, utils.E(utils.CodeNotFound, op, "analysis not yet completed for this session", nil)
	}

	key := cache.ResultKey(sess.ID)
	if s.cache != nil {
		var cached models.AnalysisResult
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	res, err := s.results.GetBySessionID(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// COMPLETED without a result row means a checkpoint write raced
			// a crash; surface as not-yet-completed rather than a 500.
			return nil, utils.E(utils.CodeNotFound, op, "analysis not yet completed for this session", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load analysis result", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, res, s.resultTTL)
	}
	return res, nil
}

func (s *analysisService) Search(ctx context.Context, sess *models.Session, query string) (SearchMatches, error) {
	const op = "AnalysisService.Search"

	query = strings.TrimSpace(query)
	if query == "" {
		return SearchMatches{}, utils.E(utils.CodeInvalidArgument, op, "search query is required", nil)
	}

	res, err := s.Results(ctx, sess)
	if err != nil {
		return SearchMatches{}, err
	}

	q := strings.ToLower(query)
	contains := func(field string) bool {
		return strings.Contains(strings.ToLower(field), q)
	}
	return SearchMatches{
		Transcription: contains(res.TranscriptionText),
		Summary:       contains(res.SummaryText),
		Notes:         contains(res.NotesText),
		Suggestions:   contains(res.SuggestionsResourcesText),
	}, nil
}

func (s *analysisService) Ask(ctx context.Context, sess *models.Session, question, userContext string) (*models.QAExchange, error) {
	const op = "AnalysisService.Ask"

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question is required", nil)
	}

	res, err := s.Results(ctx, sess)
	if err != nil {
		return nil, err
	}

	p := prompt.QA(prompt.QAContext{
		UserContext:   userContext,
		Summary:       res.SummaryText,
		Notes:         res.NotesText,
		Transcription: res.TranscriptionText,
	}, question)

	answer, err := s.llm.Generate(ctx, p)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			return nil, utils.E(utils.CodeUnavailable, op, "generation service unreachable", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get answer", err)
	}

	qa := &models.QAExchange{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Question:  question,
		Answer:    answer,
		Model:     s.llm.Model(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.qa.Insert(ctx, qa); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store exchange", err)
	}
	return qa, nil
}

func (s *analysisService) History(ctx context.Context, sessionID string, limit int64) ([]models.QAExchange, error) {
	const op = "AnalysisService.History"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session id is required", nil)
	}
	out, err := s.qa.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list exchanges", err)
	}
	return out, nil
}
