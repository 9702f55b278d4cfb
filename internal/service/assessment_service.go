package service

import (
	"context"
	"net/url"
	"time"

	"github.com/anime-shed/image-quality-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
	"github.com/anime-shed/image-quality-go/internal/logger"
	"github.com/anime-shed/image-quality-go/internal/observer"
	"github.com/anime-shed/image-quality-go/internal/report"
	"github.com/anime-shed/image-quality-go/internal/storage"
	"github.com/anime-shed/image-quality-go/pkg/models"
	"github.com/anime-shed/image-quality-go/pkg/validation"
)

// AssessmentService resolves an image source, assesses it and renders the
// text report alongside the structured result.
type AssessmentService interface {
	// AssessFile assesses a local file.
	AssessFile(ctx context.Context, path string) (*models.AssessmentResponse, error)

	// AssessUpload assesses a file saved under a temporary name; the report
	// carries the client's filename instead.
	AssessUpload(ctx context.Context, path, filename string) (*models.AssessmentResponse, error)

	// AssessSource accepts a local path or an http(s) URL.
	AssessSource(ctx context.Context, source string) (*models.AssessmentResponse, error)

	// ValidateSourceURL checks a remote source before anything is fetched.
	ValidateSourceURL(source string) error
}

type assessmentService struct {
	assessor  analyzer.ImageAssessor
	fetcher   storage.SourceFetcher
	validator *validation.SourceValidator
	events    observer.Subject
}

// NewAssessmentService creates a new assessment service. fetcher may be nil,
// in which case only local sources are accepted.
func NewAssessmentService(
	assessor analyzer.ImageAssessor,
	fetcher storage.SourceFetcher,
	validator *validation.SourceValidator,
	events observer.Subject,
) AssessmentService {
	if validator == nil {
		validator = validation.NewSourceValidator()
	}
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &assessmentService{
		assessor:  assessor,
		fetcher:   fetcher,
		validator: validator,
		events:    events,
	}
}

func (s *assessmentService) AssessFile(ctx context.Context, path string) (*models.AssessmentResponse, error) {
	return s.run(ctx, path, path, path)
}

func (s *assessmentService) AssessUpload(ctx context.Context, path, filename string) (*models.AssessmentResponse, error) {
	return s.run(ctx, filename, path, filename)
}

func (s *assessmentService) AssessSource(ctx context.Context, source string) (*models.AssessmentResponse, error) {
	if !validation.IsRemoteSource(source) {
		return s.AssessFile(ctx, source)
	}

	start := time.Now()
	s.events.NotifyObservers(ctx, observer.AssessmentEvent{
		EventType: observer.AssessmentStarted,
		Source:    source,
	})

	if err := s.ValidateSourceURL(source); err != nil {
		s.failed(ctx, source, start, err)
		return nil, err
	}

	if s.fetcher == nil {
		err := apperrors.NewValidationError("remote sources are not enabled", nil)
		s.failed(ctx, source, start, err)
		return nil, err
	}

	tmp, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		s.failed(ctx, source, start, err)
		return nil, err
	}
	defer func() {
		if err := tmp.Remove(); err != nil {
			logger.WithError(err).WithField("path", tmp.Path).Warn("Failed to remove downloaded source")
		}
	}()

	s.events.NotifyObservers(ctx, observer.AssessmentEvent{
		EventType: observer.SourceFetched,
		Source:    source,
		Success:   true,
		Metadata:  map[string]interface{}{"path": tmp.Path},
	})

	return s.assess(ctx, source, tmp.Path, displayName(source), start)
}

func (s *assessmentService) ValidateSourceURL(source string) error {
	return s.validator.ValidateSourceURL(source)
}

// run assesses a local path and publishes the full event sequence.
func (s *assessmentService) run(ctx context.Context, source, path, name string) (*models.AssessmentResponse, error) {
	start := time.Now()
	s.events.NotifyObservers(ctx, observer.AssessmentEvent{
		EventType: observer.AssessmentStarted,
		Source:    source,
	})
	return s.assess(ctx, source, path, name, start)
}

func (s *assessmentService) assess(ctx context.Context, source, path, name string, start time.Time) (*models.AssessmentResponse, error) {
	result, err := s.assessor.Assess(ctx, path)
	if err != nil {
		s.failed(ctx, source, start, err)
		return nil, err
	}
	result.ImagePath = name

	s.events.NotifyObservers(ctx, observer.AssessmentEvent{
		EventType:      observer.AssessmentCompleted,
		Source:         source,
		ProcessingTime: time.Since(start),
		Success:        true,
		OverallQuality: result.Overall.Quality,
		OverallScore:   result.Overall.Score,
	})

	return &models.AssessmentResponse{
		Success: true,
		Results: result,
		Report:  report.Render(result),
	}, nil
}

func (s *assessmentService) failed(ctx context.Context, source string, start time.Time, err error) {
	s.events.NotifyObservers(ctx, observer.AssessmentEvent{
		EventType:      observer.AssessmentFailed,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
}

// displayName drops the query string so signed URLs do not end up in reports.
func displayName(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return source
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
