package app

import "nutrition-bot/internal/domain/entity"

// ClassifySeverity определяет степень по классу и уверенности.
// Ниже порога класса всегда UNCERTAIN; порог берётся из таблицы таксономии.
func ClassifySeverity(index int, confidence float32, tax entity.Taxonomy) entity.Severity {
	label, ok := tax.Label(index)
	if confidence < tax.Thresholds.For(label) {
		return entity.SeverityUncertain
	}
	if !ok {
		return entity.SeverityUnknown
	}
	severity, ok := tax.Severities[label]
	if !ok {
		return entity.SeverityUnknown
	}
	return severity
}
