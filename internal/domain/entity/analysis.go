package entity

import "slices"

// Зарезервированные имена класса для неуспешного анализа.
const (
	ClassError   = "error"
	ClassUnknown = "unknown"
)

// Severity клиническая степень, выведенная из класса и уверенности.
type Severity string

const (
	SeveritySevere    Severity = "SEVERE"
	SeverityModerate  Severity = "MODERATE"
	SeverityMild      Severity = "MILD"
	SeverityChronic   Severity = "CHRONIC"
	SeverityNormal    Severity = "NORMAL"
	SeverityUncertain Severity = "UNCERTAIN"
	SeverityUnknown   Severity = "UNKNOWN"
)

// ConfidenceBucket уровень уверенности.
type ConfidenceBucket string

const (
	ConfidenceHigh   ConfidenceBucket = "High"
	ConfidenceMedium ConfidenceBucket = "Medium"
	ConfidenceLow    ConfidenceBucket = "Low"
)

// Границы уровней уверенности.
const (
	HighConfidence   float32 = 0.8
	MediumConfidence float32 = 0.6
)

// BucketOf относит уверенность к одному из трёх уровней.
func BucketOf(confidence float32) ConfidenceBucket {
	switch {
	case confidence >= HighConfidence:
		return ConfidenceHigh
	case confidence >= MediumConfidence:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// AnalysisResult итог одного анализа. После создания не изменяется.
type AnalysisResult struct {
	Success         bool
	ClassName       string
	ClassIndex      int // -1 при ошибке
	Confidence      float32
	Bucket          ConfidenceBucket
	Description     string
	Severity        Severity
	Recommendations []string
	Err             error // причина неуспеха, для errors.As
}

// FailedResult собирает результат для неуспешного анализа.
func FailedResult(err error) AnalysisResult {
	msg := "analysis failed"
	if err != nil {
		msg = err.Error()
	}
	return AnalysisResult{
		Success:     false,
		ClassName:   ClassError,
		ClassIndex:  -1,
		Confidence:  0,
		Description: msg,
		Err:         err,
	}
}

// RecommendationList возвращает копию рекомендаций.
func (r AnalysisResult) RecommendationList() []string {
	return slices.Clone(r.Recommendations)
}

// Пороги уверенности для предупреждений по классу.
const (
	ImmediateAttentionConfidence float32 = 0.8
	InterventionConfidence       float32 = 0.7
)

// RequiresImmediateAttention сообщает об острой тяжёлой недостаточности (SAM) с уверенностью от 0.8.
// Решает класс, а не степень: SAM ниже порога степени всё равно срочный.
func (r AnalysisResult) RequiresImmediateAttention() bool {
	return r.Success &&
		ClassLabel(r.ClassName) == ClassSevereAcute &&
		r.Confidence >= ImmediateAttentionConfidence
}

// RequiresIntervention сообщает об умеренной недостаточности или ожирении с уверенностью от 0.7.
func (r AnalysisResult) RequiresIntervention() bool {
	if !r.Success || r.Confidence < InterventionConfidence {
		return false
	}
	switch ClassLabel(r.ClassName) {
	case ClassModerateAcute, ClassObesity:
		return true
	default:
		return false
	}
}
