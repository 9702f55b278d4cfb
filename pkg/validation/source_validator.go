package validation

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/anime-shed/image-quality-go/internal/decoder"
	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
)

// SourceValidator checks remote image URLs and uploaded file names before
// anything is downloaded or written to disk.
type SourceValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewSourceValidator creates a validator accepting http and https from any host.
func NewSourceValidator() *SourceValidator {
	return &SourceValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewSourceValidatorWithOptions creates a validator with custom scheme and host lists.
func NewSourceValidatorWithOptions(schemes []string, hosts []string) *SourceValidator {
	return &SourceValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// IsRemoteSource reports whether source looks like a URL rather than a path.
func IsRemoteSource(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateSourceURL validates a remote image URL.
func (v *SourceValidator) ValidateSourceURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

// ValidateUploadFilename checks that an uploaded file carries one of the
// accepted raster or RAW extensions.
func (v *SourceValidator) ValidateUploadFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return apperrors.NewValidationError("No file selected", nil)
	}
	ext := filepath.Ext(filename)
	if ext == "" || !(decoder.IsRasterExtension(ext) || decoder.IsRawExtension(ext)) {
		return apperrors.NewValidationError("Invalid file type", nil)
	}
	return nil
}

func (v *SourceValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isHostAllowed returns true if no host restrictions are set
func (v *SourceValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}
