package service

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/image-quality-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
	"github.com/anime-shed/image-quality-go/internal/observer"
	"github.com/anime-shed/image-quality-go/internal/storage"
	"github.com/anime-shed/image-quality-go/pkg/models"
	"github.com/anime-shed/image-quality-go/pkg/validation"
)

func writePNG(t *testing.T, dir, name string, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

type fakeFetcher struct {
	t       *testing.T
	dir     string
	err     error
	fetched []string
	last    *storage.TempFile
}

func (f *fakeFetcher) Fetch(_ context.Context, source string) (*storage.TempFile, error) {
	f.fetched = append(f.fetched, source)
	if f.err != nil {
		return nil, f.err
	}
	path := writePNG(f.t, f.dir, "source-123.png", color.RGBA{128, 128, 128, 255})
	f.last = &storage.TempFile{Path: path}
	return f.last, nil
}

func newService(t *testing.T, fetcher storage.SourceFetcher) (AssessmentService, *observer.MetricsObserver) {
	t.Helper()
	assessor, err := analyzer.NewImageAssessor(nil, 1)
	require.NoError(t, err)
	t.Cleanup(func() { assessor.Close() })

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(metrics)

	return NewAssessmentService(assessor, fetcher, validation.NewSourceValidator(), events), metrics
}

func TestAssessFile(t *testing.T) {
	svc, metrics := newService(t, nil)
	path := writePNG(t, t.TempDir(), "gray.png", color.RGBA{128, 128, 128, 255})

	resp, err := svc.AssessFile(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Results)
	assert.Equal(t, path, resp.Results.ImagePath)
	assert.Equal(t, models.TierFair, resp.Results.Overall.Quality)
	assert.Contains(t, resp.Report, "IMAGE QUALITY ASSESSMENT REPORT")
	assert.Contains(t, resp.Report, "Image: gray.png")
	assert.Contains(t, resp.Report, "OVERALL QUALITY: Fair (58.8%)")

	stats := metrics.Stats()
	assert.Equal(t, int64(1), stats.TotalAssessments)
	assert.Equal(t, int64(1), stats.SuccessfulAssessments)
	assert.Equal(t, int64(1), stats.ByOverallQuality[models.TierFair])
}

func TestAssessFile_NotFound(t *testing.T) {
	svc, metrics := newService(t, nil)

	resp, err := svc.AssessFile(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	stats := metrics.Stats()
	assert.Equal(t, int64(1), stats.TotalAssessments)
	assert.Equal(t, int64(1), stats.FailedAssessments)
}

func TestAssessUpload_UsesClientFilename(t *testing.T) {
	svc, _ := newService(t, nil)
	path := writePNG(t, t.TempDir(), "upload-8841.png", color.RGBA{70, 130, 180, 255})

	resp, err := svc.AssessUpload(context.Background(), path, "holiday.png")
	require.NoError(t, err)
	assert.Equal(t, "holiday.png", resp.Results.ImagePath)
	assert.Contains(t, resp.Report, "Image: holiday.png")
}

func TestAssessSource_LocalPath(t *testing.T) {
	fetcher := &fakeFetcher{t: t, dir: t.TempDir()}
	svc, _ := newService(t, fetcher)
	path := writePNG(t, t.TempDir(), "local.png", color.RGBA{128, 128, 128, 255})

	_, err := svc.AssessSource(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, fetcher.fetched)
}

func TestAssessSource_RemoteRemovesDownload(t *testing.T) {
	fetcher := &fakeFetcher{t: t, dir: t.TempDir()}
	svc, metrics := newService(t, fetcher)

	resp, err := svc.AssessSource(context.Background(), "https://cdn.example.com/shots/gray.png?sig=secret")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://cdn.example.com/shots/gray.png?sig=secret"}, fetcher.fetched)
	assert.Equal(t, "https://cdn.example.com/shots/gray.png", resp.Results.ImagePath)
	assert.False(t, strings.Contains(resp.Report, "secret"))

	_, statErr := os.Stat(fetcher.last.Path)
	assert.True(t, os.IsNotExist(statErr), "downloaded file should be removed")
	assert.Equal(t, int64(1), metrics.Stats().SuccessfulAssessments)
}

func TestAssessSource_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fetcher  storage.SourceFetcher
		source   string
		wantType apperrors.ErrorType
	}{
		{
			name:     "missing host",
			fetcher:  &fakeFetcher{t: t, dir: t.TempDir()},
			source:   "http://",
			wantType: apperrors.ErrorTypeValidation,
		},
		{
			name:     "no fetcher configured",
			source:   "https://example.com/a.jpg",
			wantType: apperrors.ErrorTypeValidation,
		},
		{
			name: "fetch failure passes through",
			fetcher: &fakeFetcher{t: t, dir: t.TempDir(),
				err: apperrors.NewNetworkError("failed to fetch image after 3 attempts", nil)},
			source:   "https://example.com/a.jpg",
			wantType: apperrors.ErrorTypeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, metrics := newService(t, tt.fetcher)
			_, err := svc.AssessSource(context.Background(), tt.source)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)

			stats := metrics.Stats()
			assert.Equal(t, int64(1), stats.TotalAssessments)
			assert.Equal(t, int64(1), stats.FailedAssessments)
		})
	}
}
