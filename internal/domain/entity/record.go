package entity

import "time"

// AssessmentRecord запись истории оценок пользователя.
type AssessmentRecord struct {
	ID          string
	UserID      int64
	ClassName   string
	Confidence  float32
	Severity    Severity
	Description string
	CreatedAt   time.Time
}

// NewAssessmentRecord строит запись истории из успешного результата.
func NewAssessmentRecord(id string, userID int64, r AnalysisResult, at time.Time) AssessmentRecord {
	return AssessmentRecord{
		ID:          id,
		UserID:      userID,
		ClassName:   r.ClassName,
		Confidence:  r.Confidence,
		Severity:    r.Severity,
		Description: r.Description,
		CreatedAt:   at,
	}
}
