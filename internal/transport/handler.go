package transport

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/image-quality-go/internal/config"
	"github.com/anime-shed/image-quality-go/internal/decoder"
	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
	"github.com/anime-shed/image-quality-go/internal/logger"
	"github.com/anime-shed/image-quality-go/internal/service"
	"github.com/anime-shed/image-quality-go/pkg/models"
	"github.com/anime-shed/image-quality-go/pkg/validation"
)

// StatsProvider exposes the assessment counters served on /stats.
type StatsProvider interface {
	Stats() models.AssessmentStats
}

const (
	msgNoFile       = "No file provided"
	msgTooLarge     = "File too large"
	msgInvalidInput = "Invalid request format"
)

// multipartOverhead leaves room for boundaries and part headers on top of the
// file size limit.
const multipartOverhead = 64 * 1024

func NewHandler(svc service.AssessmentService, stats StatsProvider, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestLogger(),
		errorHandler(),
	)

	validator := validation.NewSourceValidator()

	r.GET("/health", healthCheck)
	r.GET("/formats", listFormats)
	r.GET("/stats", serveStats(stats))
	r.POST("/upload", requestSizeLimiter(cfg.MaxUploadSize+multipartOverhead), uploadImage(svc, validator, cfg))
	r.POST("/analyze", requestSizeLimiter(multipartOverhead), analyzeImage(svc, cfg))

	return r
}

func uploadImage(svc service.AssessmentService, v *validation.SourceValidator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		fh, err := c.FormFile("file")
		if err != nil {
			if isBodyTooLarge(err) {
				respondError(c, http.StatusRequestEntityTooLarge, msgTooLarge, err)
				return
			}
			respondError(c, http.StatusBadRequest, msgNoFile, err)
			return
		}
		if fh.Size > cfg.MaxUploadSize {
			respondError(c, http.StatusRequestEntityTooLarge, msgTooLarge, nil)
			return
		}

		filename := filepath.Base(fh.Filename)
		if err := v.ValidateUploadFilename(fh.Filename); err != nil {
			respondError(c, http.StatusBadRequest, messageOf(err), err)
			return
		}

		tmpPath, err := saveUpload(fh, cfg.UploadDir)
		if err != nil {
			respondError(c, http.StatusInternalServerError, messageOf(err), err)
			return
		}
		defer func() {
			if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.WithError(err).WithField("path", tmpPath).Warn("Failed to remove upload")
			}
		}()

		logger.WithFields(logrus.Fields{
			"filename": filename,
			"size":     fh.Size,
		}).Debug("Upload saved")

		resp, err := svc.AssessUpload(ctx, tmpPath, filename)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), messageOf(err), err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func analyzeImage(svc service.AssessmentService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, msgInvalidInput, err)
			return
		}

		if err := svc.ValidateSourceURL(req.URL); err != nil {
			respondError(c, apperrors.GetStatusCode(err), messageOf(err), err)
			return
		}

		resp, err := svc.AssessSource(ctx, req.URL)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), messageOf(err), err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, models.FormatsResponse{
		Raster: decoder.RasterExtensions(),
		Raw:    decoder.RawExtensions(),
	})
}

func serveStats(stats StatsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if stats == nil {
			c.JSON(http.StatusOK, models.AssessmentStats{ByOverallQuality: map[models.QualityTier]int64{}})
			return
		}
		c.JSON(http.StatusOK, stats.Stats())
	}
}

// saveUpload copies the upload into dir under a random name that keeps the
// original extension, which the decoder dispatches on.
func saveUpload(fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperrors.NewInternalError("failed to read upload", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, "upload-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", apperrors.NewInternalError("failed to store upload", err)
	}

	_, err = io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst.Name())
		return "", apperrors.NewInternalError("failed to store upload", err)
	}
	return dst.Name(), nil
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status_code":        c.Writer.Status(),
			"ip":                 c.ClientIP(),
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// messageOf returns the user-facing part of an error.
func messageOf(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func respondError(c *gin.Context, code int, message string, err error) {
	entry := logger.WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{Error: message})
}
