package app

import (
	"slices"

	"nutrition-bot/internal/domain/entity"
)

// LowConfidenceAdvice единственная рекомендация при уверенности ниже 0.6.
const LowConfidenceAdvice = "Low confidence result - recommend anthropometric measurements and a professional assessment using WHO growth standards"

const (
	unknownDescription = "Unknown classification"
	unknownAdvice      = "Please consult with a healthcare professional for proper assessment"
)

// Recommend возвращает описание и упорядоченный список действий для класса.
func Recommend(index int, confidence float32, tax entity.Taxonomy) (string, []string) {
	advice, known := adviceFor(index, tax)

	base := unknownDescription
	if known {
		base = advice.Description
	}
	description := base + " (" + qualifier(entity.BucketOf(confidence)) + ")"

	if confidence < entity.MediumConfidence {
		return description, []string{LowConfidenceAdvice}
	}
	if !known {
		return description, []string{unknownAdvice}
	}
	return description, slices.Clone(advice.Actions)
}

func adviceFor(index int, tax entity.Taxonomy) (entity.Advice, bool) {
	label, ok := tax.Label(index)
	if !ok {
		return entity.Advice{}, false
	}
	advice, ok := tax.Advice[label]
	return advice, ok
}

func qualifier(bucket entity.ConfidenceBucket) string {
	switch bucket {
	case entity.ConfidenceHigh:
		return "High confidence"
	case entity.ConfidenceMedium:
		return "Medium confidence"
	default:
		return "Low confidence - recommend professional assessment"
	}
}
