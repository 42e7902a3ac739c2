package stt

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// GoogleSpeech recognizes the extractor's normalized output (LINEAR16,
// 16kHz mono) through the asynchronous LongRunningRecognize API. The
// synchronous Recognize call caps out around a minute of inline audio;
// lecture and meeting recordings run to hours, so it is never used here.
//
// With Bucket set the audio is staged to GCS and recognized by URI, which
// the service requires for anything beyond the inline request limit.
// Without a bucket the bytes go inline, which only suits short recordings
// and local development.
//
// The client is created once per process and shared across worker slots;
// Cloud clients are safe for concurrent use.
type GoogleSpeech struct {
	c       *speech.Client
	storage *gcs.Client

	Bucket   string // staging bucket for recognition input
	Language string // BCP-47, e.g. "en-US"
	Model    string // recognition model, e.g. "latest_long"
}

func NewGoogleSpeech(ctx context.Context, language, model, bucket string) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = "en-US"
	}

	g := &GoogleSpeech{c: c, Language: language, Model: model, Bucket: bucket}
	if bucket != "" {
		sc, err := gcs.NewClient(ctx)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		g.storage = sc
	}
	return g, nil
}

func (g *GoogleSpeech) Close() error {
	if g.storage != nil {
		_ = g.storage.Close()
	}
	return g.c.Close()
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	if g == nil || g.c == nil {
		return nil, ErrUnavailable
	}

	cfg := &speechpb.RecognitionConfig{
		Encoding:                   speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:            16000,
		LanguageCode:               g.Language,
		EnableAutomaticPunctuation: true,
	}
	if g.Model != "" {
		cfg.Model = g.Model
	}

	audio, cleanup, err := g.recognitionAudio(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	op, err := g.c.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{
		Config: cfg,
		Audio:  audio,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	resp, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	return segmentsFromResults(resp.Results), nil
}

// recognitionAudio prepares the request's audio source: staged to the
// bucket when one is configured, inline bytes otherwise. The cleanup
// removes the staged object once recognition is done.
func (g *GoogleSpeech) recognitionAudio(ctx context.Context, audioPath string) (*speechpb.RecognitionAudio, func(), error) {
	if g.Bucket == "" {
		b, err := os.ReadFile(audioPath)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read audio: %v", ErrTranscription, err)
		}
		return &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: b},
		}, func() {}, nil
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read audio: %v", ErrTranscription, err)
	}
	defer f.Close()

	key := stagingKey(audioPath)
	obj := g.storage.Bucket(g.Bucket).Object(key)

	w := obj.NewWriter(ctx)
	w.ContentType = "audio/wav"
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return nil, nil, fmt.Errorf("%w: stage audio: %v", ErrTranscription, err)
	}
	if err := w.Close(); err != nil {
		return nil, nil, fmt.Errorf("%w: stage audio: %v", ErrTranscription, err)
	}

	cleanup := func() {
		// recognition may outlive the run context
		_ = obj.Delete(context.Background())
	}
	return &speechpb.RecognitionAudio{
		AudioSource: &speechpb.RecognitionAudio_Uri{Uri: "gs://" + g.Bucket + "/" + key},
	}, cleanup, nil
}

// stagingKey names a staged recognition input; unique per call so
// concurrent runs of the same session never clobber each other.
func stagingKey(audioPath string) string {
	return "stt-staging/" + uuid.NewString() + "-" + filepath.Base(audioPath)
}

// segmentsFromResults takes the top alternative of each result, in
// recording order.
func segmentsFromResults(results []*speechpb.SpeechRecognitionResult) []Segment {
	var segs []Segment
	for _, r := range results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if t := r.Alternatives[0].Transcript; t != "" {
			segs = append(segs, Segment{Text: t})
		}
	}
	return segs
}
