// Package report turns an assessment into the plain-text report and the
// improvement recommendations shown to users.
package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
	"github.com/anime-shed/image-quality-go/pkg/models"
)

const (
	headerRule  = 60
	sectionRule = 40
)

var titleCaser = cases.Title(language.English)

// AspectTitle converts an aspect key such as "color_balance" to "Color Balance".
func AspectTitle(aspect models.Aspect) string {
	return titleCaser.String(strings.ReplaceAll(string(aspect), "_", " "))
}

// FormatScore prints a score the way it is serialised: shortest form, always
// with a fractional part ("118.0", "93.8", "56.67").
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Render produces the multi-section text report for a complete assessment.
// It only formats; no value in r is recomputed.
func Render(r *models.AssessmentReport) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", headerRule) + "\n")
	b.WriteString("IMAGE QUALITY ASSESSMENT REPORT\n")
	b.WriteString(strings.Repeat("=", headerRule) + "\n")
	b.WriteString(fmt.Sprintf("Image: %s\n", filepath.Base(r.ImagePath)))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("OVERALL QUALITY: %s (%s%%)\n", r.Overall.Quality, FormatScore(r.Overall.Score)))
	b.WriteString(r.Overall.Summary + "\n")
	b.WriteString("\n")

	b.WriteString("DETAILED ANALYSIS:\n")
	b.WriteString(strings.Repeat("-", sectionRule) + "\n")

	b.WriteString("Resolution & Detail:\n")
	b.WriteString(fmt.Sprintf("  • %s\n", r.Resolution.Description))
	b.WriteString("\n")

	for _, aspect := range models.WeightedAspects() {
		m, ok := r.Metric(aspect)
		if !ok {
			continue
		}
		b.WriteString(AspectTitle(aspect) + ":\n")
		b.WriteString(fmt.Sprintf("  • Quality: %s\n", m.Quality))
		b.WriteString(fmt.Sprintf("  • Score: %s (%s)\n", FormatScore(m.Score), m.Metric))
		b.WriteString(fmt.Sprintf("  • %s\n", m.Description))
		b.WriteString("\n")
	}

	b.WriteString("RECOMMENDATIONS:\n")
	b.WriteString(strings.Repeat("-", sectionRule) + "\n")
	recs := Recommendations(r)
	for i, rec := range recs {
		b.WriteString("• " + rec)
		if i < len(recs)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderError produces the one-line report for a failed assessment.
func RenderError(err error) string {
	return fmt.Sprintf("Error assessing image: %s", errorMessage(err))
}

// errorMessage prefers the message of a structured error over its full chain.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
