package app

import (
	"errors"

	"nutrition-bot/internal/domain/entity"
)

// Aggregate собирает итоговый результат. При неуспехе таблицы не читаются.
func Aggregate(success bool, index int, confidence float32, tax entity.Taxonomy, cause error) entity.AnalysisResult {
	if !success {
		if cause == nil {
			cause = errors.New("analysis failed")
		}
		return entity.FailedResult(cause)
	}

	name := entity.ClassUnknown
	if label, ok := tax.Label(index); ok {
		name = string(label)
	}
	description, recommendations := Recommend(index, confidence, tax)

	return entity.AnalysisResult{
		Success:         true,
		ClassName:       name,
		ClassIndex:      index,
		Confidence:      confidence,
		Bucket:          entity.BucketOf(confidence),
		Description:     description,
		Severity:        ClassifySeverity(index, confidence, tax),
		Recommendations: recommendations,
	}
}
