package report

import (
	"reflect"
	"testing"

	"github.com/anime-shed/image-quality-go/pkg/models"
)

func TestRecommendations_AllExcellent(t *testing.T) {
	got := Recommendations(sampleReport())
	if !reflect.DeepEqual(got, []string{RecNone}) {
		t.Errorf("expected only the fallback, got %v", got)
	}
}

func TestRecommendations_GoodNeverRecommends(t *testing.T) {
	r := sampleReport()
	for _, m := range []*models.MetricResult{&r.Sharpness, &r.Brightness, &r.Contrast, &r.Noise, &r.ColorBalance, &r.Saturation} {
		m.Quality = models.TierGood
	}
	got := Recommendations(r)
	if !reflect.DeepEqual(got, []string{RecNone}) {
		t.Errorf("expected only the fallback, got %v", got)
	}
}

func TestRecommendations_PerAspect(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(r *models.AssessmentReport)
		want   []string
	}{
		{"blurry", func(r *models.AssessmentReport) { r.Sharpness = metric(50, models.TierPoor) }, []string{RecSharpness}},
		{"dark", func(r *models.AssessmentReport) { r.Brightness = metric(30, models.TierPoor) }, []string{RecBrighten}},
		{"slightly dark", func(r *models.AssessmentReport) { r.Brightness = metric(50, models.TierFair) }, []string{RecBrighten}},
		{"bright", func(r *models.AssessmentReport) { r.Brightness = metric(210, models.TierFair) }, []string{RecDarken}},
		{"flat", func(r *models.AssessmentReport) { r.Contrast = metric(20, models.TierPoor) }, []string{RecContrast}},
		{"noisy", func(r *models.AssessmentReport) { r.Noise = metric(12, models.TierFair) }, []string{RecNoise}},
		{"cast", func(r *models.AssessmentReport) { r.ColorBalance = metric(40, models.TierPoor) }, []string{RecColorBalance}},
		{"washed out", func(r *models.AssessmentReport) { r.Saturation = metric(20, models.TierPoor) }, []string{RecMoreSaturation}},
		{"muted", func(r *models.AssessmentReport) { r.Saturation = metric(45, models.TierFair) }, []string{RecMoreSaturation}},
		{"vivid", func(r *models.AssessmentReport) { r.Saturation = metric(190, models.TierFair) }, []string{RecLessSaturation}},
		{"several", func(r *models.AssessmentReport) {
			r.Saturation = metric(250, models.TierPoor)
			r.Sharpness = metric(10, models.TierPoor)
			r.Noise = metric(30, models.TierPoor)
		}, []string{RecSharpness, RecNoise, RecLessSaturation}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := sampleReport()
			tc.mutate(r)
			if got := Recommendations(r); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
