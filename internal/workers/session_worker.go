package workers

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lectura-ai/lectura/internal/analysis"
	"github.com/lectura-ai/lectura/internal/cache"
	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/prompt"
	"github.com/lectura-ai/lectura/internal/providers/llm"
	"github.com/lectura-ai/lectura/internal/providers/stt"
	pgrepo "github.com/lectura-ai/lectura/internal/repositories/postgres"
	"github.com/lectura-ai/lectura/internal/storage"
)

// MediaTool is the slice of internal/media the pipeline needs; kept as an
// interface so runs can be tested without ffmpeg on PATH.
type MediaTool interface {
	Extract(ctx context.Context, src, dst string) error
	ProbeDuration(ctx context.Context, src string) (int64, error)
}

// SessionWorkerPool consumes session run requests from a Redis Stream and
// drives each through the processing pipeline:
//
//	PENDING → TRANSCRIBING → ANALYZING → COMPLETED (or FAILED)
//
// Delivery is at-least-once and nothing enforces run exclusivity; the
// persisted status is a soft guard only. Every fatal condition ends as a
// persisted FAILED status; a run never takes the worker process down.
type SessionWorkerPool struct {
	Redis       *redis.Client
	Sessions    pgrepo.SessionRepository
	Results     pgrepo.AnalysisRepository
	Store       storage.MediaStore
	Media       MediaTool
	Transcriber *stt.Transcriber
	LLM         llm.Provider
	Cache       cache.Cache

	Logger     *logrus.Logger
	NumWorkers int
	ScratchDir string

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *SessionWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Sessions == nil || p.Results == nil || p.Store == nil ||
		p.Media == nil || p.Transcriber == nil || p.LLM == nil {
		return errors.New("SessionWorkerPool missing dependency")
	}
	if p.Stream == "" {
		p.Stream = "sessions:process"
	}
	if p.Group == "" {
		p.Group = "session-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "w"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.ScratchDir == "" {
		p.ScratchDir = os.TempDir()
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *SessionWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *SessionWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	sessionID, _ := msg.Values["session_id"].(string)
	if sessionID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"session_id": sessionID,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("run panicked")
		}
	}()

	p.runSession(ctx, log, sessionID)
}

// runSession executes one pipeline run. Stage order is strict; the status
// write at each boundary is a durable checkpoint visible to pollers.
func (p *SessionWorkerPool) runSession(ctx context.Context, log *logrus.Entry, sessionID string) {
	sess, err := p.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		log.WithError(err).Warn("session lookup failed, dropping run")
		return
	}

	if sess.Status == models.StatusCompleted {
		// stale redelivery of an already-completed session
		log.Debug("session already completed, dropping run")
		return
	}

	p.checkpoint(ctx, log, sess, models.StatusTranscribing)

	if sess.FilePath == "" {
		p.fail(ctx, log, sess, errors.New("session has no stored media path"))
		return
	}

	srcPath, release, err := p.Store.Resolve(ctx, sess.FilePath)
	if err != nil {
		p.fail(ctx, log, sess, err)
		return
	}
	defer release()

	if sess.DurationSeconds == 0 {
		if secs, derr := p.Media.ProbeDuration(ctx, srcPath); derr == nil && secs > 0 {
			if uerr := p.Sessions.SetDuration(ctx, sess.ID, secs); uerr != nil {
				log.WithError(uerr).Warn("failed to persist duration")
			}
		} else if derr != nil {
			log.WithError(derr).Debug("duration probe failed")
		}
	}

	// Run-scoped temp audio, unique per session id. Removal is
	// unconditional; a cleanup failure is logged and never changes the
	// run's outcome.
	wavPath := filepath.Join(p.ScratchDir, "session-"+sess.ID+".wav")
	defer func() {
		if rmErr := os.Remove(wavPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithError(rmErr).Warn("temp audio cleanup failed")
		}
	}()

	if err := p.Media.Extract(ctx, srcPath, wavPath); err != nil {
		p.fail(ctx, log, sess, err)
		return
	}

	transcript, err := p.Transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		p.fail(ctx, log, sess, err)
		return
	}

	p.checkpoint(ctx, log, sess, models.StatusAnalyzing)

	completion, err := p.LLM.Generate(ctx, prompt.Analysis(transcript, sess.ProcessingMode))
	if err != nil {
		p.fail(ctx, log, sess, err)
		return
	}

	parsed := analysis.Parse(completion)

	res := &models.AnalysisResult{
		SessionID:                sess.ID,
		TranscriptionText:        transcript,
		SummaryText:              parsed.Summary,
		NotesText:                parsed.Notes,
		SuggestionsResourcesText: parsed.Suggestions,
		ProcessedTimestamp:       time.Now().UTC(),
		LLMModelUsed:             p.LLM.Model(),
		PromptTemplateVersion:    prompt.TemplateVersion,
	}
	if err := p.Results.Upsert(ctx, res); err != nil {
		p.fail(ctx, log, sess, err)
		return
	}

	p.checkpoint(ctx, log, sess, models.StatusCompleted)

	if p.Cache != nil {
		_ = p.Cache.Del(ctx, cache.ResultKey(sess.ID))
	}

	log.Info("session processing completed")
}

func (p *SessionWorkerPool) fail(ctx context.Context, log *logrus.Entry, sess *models.Session, cause error) {
	log.WithError(cause).Error("session run failed")
	p.checkpoint(ctx, log, sess, models.StatusFailed)
}

// checkpoint persists a status transition and publishes it for live
// subscribers. An out-of-table transition (a retry racing an in-flight
// run) is logged but still persisted: status is a soft guard, not a lock.
// A failed write leaves the in-memory status at the last durable value so
// later transition checks compare against what pollers actually see.
func (p *SessionWorkerPool) checkpoint(ctx context.Context, log *logrus.Entry, sess *models.Session, to models.Status) {
	if !models.CanTransition(sess.Status, to) {
		log.WithFields(logrus.Fields{"from": sess.Status, "to": to}).Warn("unexpected status transition")
	}
	if err := p.Sessions.SetStatus(ctx, sess.ID, to); err != nil {
		log.WithError(err).WithField("to", to).Error("failed to persist status")
		return
	}
	sess.Status = to
	p.publishStatus(ctx, sess.ID, to)
}

func (p *SessionWorkerPool) publishStatus(ctx context.Context, sessionID string, status models.Status) {
	if p.Redis == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"type":       "status",
		"session_id": sessionID,
		"status":     status,
	})
	_ = p.Redis.Publish(ctx, StatusChannel(sessionID), string(payload)).Err()
}

// StatusChannel is the pub/sub channel carrying a session's checkpoint
// updates, consumed by the WebSocket handler.
func StatusChannel(sessionID string) string {
	return "session:" + sessionID + ":status"
}
