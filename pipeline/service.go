package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/chordsense/chordsense/acquire"
	"github.com/chordsense/chordsense/chroma"
	"github.com/chordsense/chordsense/logging"
	"github.com/chordsense/chordsense/tab"
	"github.com/chordsense/chordsense/tonal"
	"github.com/chordsense/chordsense/transcode"
)

// ErrResultNotReady is returned when a result is requested for a job that
// has not completed
var ErrResultNotReady = errors.New("job result not ready")

// Preferences carries per-job analysis preferences
type Preferences struct {
	Instrument string `json:"instrument"` // only "guitar" is supported
}

// Service orchestrates the full pipeline: acquisition, normalization,
// sampling, analysis and tablature synthesis, tracked through the job store.
type Service struct {
	cfg        Config
	store      *Store
	cache      resultCache
	normalizer *transcode.Normalizer
	downloader downloader
	metadata   metadataFetcher
	engine     *chroma.Engine
	tempo      *tonal.TempoEstimator
	key        *tonal.KeyEstimator
	tabber     *tab.Synthesizer
	logger     logging.Logger
}

// downloader and metadataFetcher are the acquisition seams, satisfied by
// acquire.Downloader and acquire.MetadataFetcher
type downloader interface {
	Download(ctx context.Context, videoID, destDir string) (string, error)
}

type metadataFetcher interface {
	Fetch(ctx context.Context, videoID string) acquire.VideoMetadata
}

// resultCache is the caching seam, satisfied by ResultCache
type resultCache interface {
	Put(ctx context.Context, sourceKey string, result *ProcessingResult) error
	Get(ctx context.Context, sourceKey string) (*ProcessingResult, error)
}

// NewService builds a service from configuration. Missing ffmpeg/ffprobe is
// a fatal construction error. Redis is optional: with no address configured
// the result cache is disabled.
func NewService(cfg Config) (*Service, error) {
	normalizer, err := transcode.NewNormalizer(&transcode.Config{
		FFmpegPath:       cfg.FFmpegPath,
		FFprobePath:      cfg.FFprobePath,
		SampleRate:       22050,
		Timeout:          transcode.DefaultConfig().Timeout,
		SampleSeconds:    cfg.SampleSeconds,
		MaxOffsetSeconds: transcode.DefaultConfig().MaxOffsetSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("normalizer init failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	chromaCfg := chroma.DefaultConfig()

	return &Service{
		cfg:        cfg,
		store:      NewStore(),
		cache:      NewResultCache(redisClient, cfg.ResultTTL),
		normalizer: normalizer,
		downloader: acquire.NewDownloader(cfg.YtdlpPath),
		metadata:   acquire.NewMetadataFetcher(cfg.YouTubeAPIKey, cfg.YtdlpPath),
		engine:     chroma.NewEngine(chromaCfg),
		tempo:      tonal.NewTempoEstimator(tonal.DefaultTempoConfig()),
		key:        tonal.NewKeyEstimator(),
		tabber:     tab.NewSynthesizer(),
		logger:     logging.WithFields(logging.Fields{"component": "pipeline"}),
	}, nil
}

// SubmitYouTubeJob validates the URL synchronously, then processes the video
// asynchronously. It returns the job id.
func (s *Service) SubmitYouTubeJob(url string, prefs Preferences) (string, error) {
	videoID, err := acquire.ExtractVideoID(url)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	s.store.Create(id)

	// A result cached for the same video finishes the job without
	// reprocessing. The completed job is still cached under its own id.
	if cached, err := s.cache.Get(context.Background(), "yt:"+videoID); err != nil {
		s.logger.Warn("result cache lookup failed", logging.Fields{"error": err.Error()})
	} else if cached != nil {
		s.logger.Info("serving cached result", logging.Fields{"job_id": id, "video_id": videoID})
		s.storeResult(context.Background(), id, "", cached, s.logger)
		s.store.MarkCompleted(id, cached)
		return id, nil
	}

	go s.runYouTube(id, videoID)
	return id, nil
}

// SubmitFileJob validates the upload synchronously, then processes the file
// asynchronously. It returns the job id.
func (s *Service) SubmitFileJob(path, originalName string, prefs Preferences) (string, error) {
	if err := acquire.ValidateUpload(path, originalName, s.cfg.MaxUploadBytes); err != nil {
		return "", err
	}

	id := uuid.NewString()
	s.store.Create(id)

	go s.runFile(id, path, originalName)
	return id, nil
}

// JobStatus returns a snapshot of the job
func (s *Service) JobStatus(id string) (Job, error) {
	return s.store.Get(id)
}

// JobResult returns the result of a completed job
func (s *Service) JobResult(id string) (*ProcessingResult, error) {
	job, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusCompleted || job.Result == nil {
		return nil, ErrResultNotReady
	}
	return job.Result, nil
}

// runYouTube drives a YouTube job through every stage
func (s *Service) runYouTube(id, videoID string) {
	ctx := context.Background()
	logger := s.logger.WithFields(logging.Fields{"job_id": id, "video_id": videoID})

	workDir, err := s.makeWorkDir(id)
	if err != nil {
		logger.Error(err, "failed to create job workspace")
		s.store.MarkFailed(id, err)
		return
	}
	defer s.cleanup(workDir, logger)

	s.store.SetStatus(id, StatusDownloading, "downloading audio")
	audioPath, err := s.downloader.Download(ctx, videoID, workDir)
	if err != nil {
		logger.Error(err, "download failed")
		s.store.MarkFailed(id, err)
		return
	}

	meta := s.metadata.Fetch(ctx, videoID)

	s.process(ctx, id, audioPath, workDir, meta, "yt:"+videoID, logger)
}

// runFile drives an upload job through every stage after download
func (s *Service) runFile(id, path, originalName string) {
	ctx := context.Background()
	logger := s.logger.WithFields(logging.Fields{"job_id": id, "file": originalName})

	workDir, err := s.makeWorkDir(id)
	if err != nil {
		logger.Error(err, "failed to create job workspace")
		s.store.MarkFailed(id, err)
		return
	}
	defer s.cleanup(workDir, logger)

	meta := acquire.VideoMetadata{
		Title:  strings.TrimSuffix(originalName, filepath.Ext(originalName)),
		Artist: "Unknown Artist",
	}

	s.process(ctx, id, path, workDir, meta, "", logger)
}

// process runs the shared tail of the pipeline: convert, sample, analyze,
// synthesize, complete.
func (s *Service) process(ctx context.Context, id, audioPath, workDir string, meta acquire.VideoMetadata, sourceKey string, logger logging.Logger) {
	s.store.SetStatus(id, StatusConverting, "converting to canonical format")
	normalizedPath, err := s.normalizer.Normalize(ctx, audioPath, workDir)
	if err != nil {
		logger.Error(err, "conversion failed")
		s.store.MarkFailed(id, err)
		return
	}

	duration, err := s.normalizer.Duration(ctx, normalizedPath)
	if err != nil {
		logger.Error(err, "duration probe failed")
		s.store.MarkFailed(id, err)
		return
	}
	if meta.Duration == 0 {
		meta.Duration = duration
	}

	s.store.SetStatus(id, StatusSampling, "extracting analysis sample")
	samplePath, err := s.normalizer.ExtractSample(ctx, normalizedPath, workDir, duration)
	if err != nil {
		logger.Error(err, "sample extraction failed")
		s.store.MarkFailed(id, err)
		return
	}

	samples, sampleRate, err := transcode.ReadWAV(samplePath)
	if err != nil {
		logger.Error(err, "sample decode failed")
		s.store.MarkFailed(id, err)
		return
	}

	s.store.SetStatus(id, StatusAnalyzing, "analyzing chords, tempo and key")
	result := s.analyze(samples, sampleRate, logger)
	result.Metadata = meta

	s.store.SetStatus(id, StatusTabbing, "synthesizing tablature")
	result.Tablature = s.tabber.Synthesize(result.Chords)

	s.storeResult(ctx, id, sourceKey, result, logger)

	s.store.MarkCompleted(id, result)
	logger.Info("job completed", logging.Fields{"chords": len(result.Chords)})
}

// storeResult caches a successful result under the job id, and additionally
// under the source key (when the source is re-requestable, like a YouTube
// video) so later submissions of the same source skip reprocessing. Cache
// failures are absorbed: the job store stays authoritative.
func (s *Service) storeResult(ctx context.Context, id, sourceKey string, result *ProcessingResult, logger logging.Logger) {
	if err := s.cache.Put(ctx, "job:"+id, result); err != nil {
		logger.Warn("result cache store failed", logging.Fields{"key": "job:" + id, "error": err.Error()})
	}
	if sourceKey == "" {
		return
	}
	if err := s.cache.Put(ctx, sourceKey, result); err != nil {
		logger.Warn("result cache store failed", logging.Fields{"key": sourceKey, "error": err.Error()})
	}
}

// analyze runs chord, tempo and key analysis concurrently over the immutable
// sample. Failures degrade their stage only; analysis always returns a result.
func (s *Service) analyze(samples []float64, sampleRate int, logger logging.Logger) *ProcessingResult {
	result := &ProcessingResult{
		Tempo: tonal.DefaultTempo(),
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		detections, err := s.engine.Analyze(samples)
		if err != nil {
			aerr := &AnalysisError{Stage: "chords", Err: err}
			logger.Warn("chord analysis degraded", logging.Fields{"error": aerr.Error()})
			return
		}
		result.Chords = detections
	}()

	go func() {
		defer wg.Done()
		result.Tempo = s.tempo.Estimate(samples, sampleRate)
	}()

	go func() {
		defer wg.Done()
		frames, err := s.engine.Frames(samples)
		if err != nil {
			aerr := &AnalysisError{Stage: "key", Err: err}
			logger.Warn("key analysis degraded", logging.Fields{"error": aerr.Error()})
			return
		}
		result.Key = s.key.Estimate(frames)
	}()

	wg.Wait()

	if result.Chords == nil {
		result.Chords = []chroma.Detection{}
	}

	return result
}

// makeWorkDir creates the per-job temp directory
func (s *Service) makeWorkDir(id string) (string, error) {
	dir := filepath.Join(s.cfg.TempDir, "chordsense-"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work dir: %w", err)
	}
	return dir, nil
}

// cleanup removes the job workspace. RemoveAll is idempotent, so running it
// after a partial failure or a second time is safe.
func (s *Service) cleanup(workDir string, logger logging.Logger) {
	if err := os.RemoveAll(workDir); err != nil {
		logger.Warn("workspace cleanup failed", logging.Fields{
			"dir":   workDir,
			"error": err.Error(),
		})
	}
}
