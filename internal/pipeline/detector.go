package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"accentdetector/internal/ai"
	"accentdetector/internal/logger"
	"accentdetector/internal/media"
	"accentdetector/internal/metrics"
	"accentdetector/internal/stt"
)

// DefaultMinWords is the shortest upload transcript worth classifying.
const DefaultMinWords = 5

const insufficientSummary = "The audio sample contains insufficient speech for accurate accent detection. Please provide a longer sample with more speech content."

// InsufficientJudgment is returned instead of a classification when an
// upload's transcript is too short.
func InsufficientJudgment() *ai.Judgment {
	return &ai.Judgment{
		Accent:     "Insufficient data",
		Confidence: 0,
		Summary:    insufficientSummary,
	}
}

// Acquirer turns a source into a local wav file, registering every file it
// creates with assets.
type Acquirer interface {
	Acquire(ctx context.Context, src media.Source, assets *media.Assets) (string, error)
}

// Outcome is the result of one successful run. Insufficient runs carry the
// fixed insufficient-data judgment.
type Outcome struct {
	Judgment     *ai.Judgment
	Insufficient bool
	Transcript   string
	Source       media.SourceKind
}

// Detector runs acquisition, transcription and classification for one
// request at a time. It holds no per-request state and is safe to share.
type Detector struct {
	acquirer    Acquirer
	transcriber stt.Provider
	classifier  ai.Classifier
	tempDir     string
	minWords    int
	timeout     time.Duration
	metrics     *metrics.Recorder
	log         *logrus.Entry
}

type Option func(*Detector)

func WithTempDir(dir string) Option {
	return func(d *Detector) { d.tempDir = dir }
}

func WithMinWords(n int) Option {
	return func(d *Detector) { d.minWords = n }
}

// WithTimeout bounds every run. Zero leaves the caller's context alone.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Detector) { d.timeout = timeout }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(d *Detector) { d.metrics = r }
}

func WithLogger(log *logrus.Entry) Option {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDetector(acquirer Acquirer, transcriber stt.Provider, classifier ai.Classifier, opts ...Option) *Detector {
	d := &Detector{
		acquirer:    acquirer,
		transcriber: transcriber,
		classifier:  classifier,
		minWords:    DefaultMinWords,
		log:         logger.Discard().Entry,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectUpload runs the pipeline on an uploaded video.
func (d *Detector) DetectUpload(ctx context.Context, filename string, body io.Reader) (*Outcome, error) {
	return d.Detect(ctx, media.UploadSource(filename, body))
}

// DetectURL validates rawURL and runs the pipeline on it. An unusable URL
// returns media.ErrInvalidURL before anything touches the disk.
func (d *Detector) DetectURL(ctx context.Context, rawURL string) (*Outcome, error) {
	src, err := media.ParseURLSource(rawURL)
	if err != nil {
		return nil, err
	}
	return d.Detect(ctx, src)
}

// Detect runs every stage in order. Temporary files are removed before it
// returns, whatever the outcome.
func (d *Detector) Detect(ctx context.Context, src media.Source) (outcome *Outcome, err error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	log := d.log.WithField("source", src.Kind.String())
	if src.URL != "" {
		log = log.WithField("url", src.URL)
	}

	assets := media.NewAssets(d.tempDir)
	defer func() {
		d.cleanup(log, assets)
		d.metrics.ObserveRequest(src.Kind.String(), outcomeLabel(outcome, err))
	}()

	start := time.Now()
	audioPath, err := d.acquirer.Acquire(ctx, src, assets)
	d.metrics.ObserveStage("acquire", time.Since(start))
	if err != nil {
		stageErr := fromAcquire(err, src)
		log.WithError(err).WithField("kind", stageErr.Kind.String()).Error("acquisition failed")
		return nil, stageErr
	}
	log.WithField("audio", audioPath).Debug("audio ready")

	start = time.Now()
	result, err := d.transcriber.Transcribe(ctx, audioPath)
	d.metrics.ObserveStage("transcribe", time.Since(start))
	if err != nil {
		log.WithError(err).WithField("provider", d.transcriber.Name()).Error("transcription failed")
		return nil, &StageError{Kind: TranscriptionError, Err: err}
	}
	transcript := strings.TrimSpace(result.Transcript)
	log.WithFields(logrus.Fields{
		"provider":   result.Provider,
		"words":      WordCount(transcript),
		"transcript": transcript,
	}).Debug("transcription")

	if src.Kind == media.SourceUpload && WordCount(transcript) < d.minWords {
		log.WithField("words", WordCount(transcript)).Info("transcript too short, skipping classification")
		return &Outcome{
			Judgment:     InsufficientJudgment(),
			Insufficient: true,
			Transcript:   transcript,
			Source:       src.Kind,
		}, nil
	}

	mode := ai.ModeURL
	if src.Kind == media.SourceUpload {
		mode = ai.ModeUpload
	}
	start = time.Now()
	judgment, err := d.classifier.Classify(ctx, transcript, mode)
	d.metrics.ObserveStage("classify", time.Since(start))
	if err != nil {
		log.WithError(err).Error("classification failed")
		return nil, &StageError{Kind: ClassificationError, Err: err}
	}

	log.WithFields(logrus.Fields{
		"accent":     judgment.Accent,
		"confidence": judgment.Confidence,
	}).Info("accent detected")
	return &Outcome{Judgment: judgment, Transcript: transcript, Source: src.Kind}, nil
}

func (d *Detector) cleanup(log *logrus.Entry, assets *media.Assets) {
	for _, err := range assets.Cleanup() {
		d.metrics.CleanupFailed()
		log.WithError(err).Warn("failed to remove temporary file")
	}
}

// WordCount counts whitespace separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func outcomeLabel(outcome *Outcome, err error) string {
	if err != nil {
		if kind, ok := KindOf(err); ok {
			return kind.String()
		}
		return "error"
	}
	if outcome != nil && outcome.Insufficient {
		return "insufficient"
	}
	return "success"
}
