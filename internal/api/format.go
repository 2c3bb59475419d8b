package telegram

import (
	"errors"
	"fmt"
	"strings"

	"nutrition-bot/internal/domain/entity"
)

const (
	msgFailedImage       = "⚠️ Не удалось прочитать изображение. Попробуйте сделать другое фото."
	msgFailedUnavailable = "⚠️ Сервис анализа временно недоступен. Попробуйте позже."
	msgFailedGeneric     = "⚠️ Не удалось выполнить анализ. Попробуйте ещё раз."
	msgUrgent            = "🚨 Требуется срочная медицинская помощь."
	msgIntervention      = "⚠️ Рекомендуется консультация специалиста по питанию."
	msgHistoryEmpty      = "📭 История пока пуста. Отправьте /check, чтобы выполнить первую оценку."
	msgDisclaimer        = "Результат носит справочный характер и не заменяет осмотр врача."
)

var bucketNames = map[entity.ConfidenceBucket]string{
	entity.ConfidenceHigh:   "высокая",
	entity.ConfidenceMedium: "средняя",
	entity.ConfidenceLow:    "низкая",
}

var severityNames = map[entity.Severity]string{
	entity.SeveritySevere:    "тяжёлая",
	entity.SeverityModerate:  "умеренная",
	entity.SeverityMild:      "лёгкая",
	entity.SeverityChronic:   "хроническая",
	entity.SeverityNormal:    "норма",
	entity.SeverityUncertain: "не определена",
	entity.SeverityUnknown:   "неизвестна",
}

// FormatResult готовит текст ответа на фото.
func FormatResult(r entity.AnalysisResult) string {
	if !r.Success {
		return failureMessage(r.Err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Результат: %s\n", humanLabel(r.ClassName))
	fmt.Fprintf(&b, "Уверенность: %.1f%% (%s)\n", r.Confidence*100, nameOr(bucketNames, r.Bucket))
	fmt.Fprintf(&b, "Степень: %s\n\n", nameOr(severityNames, r.Severity))
	b.WriteString(r.Description)
	b.WriteString("\n")

	if recs := r.RecommendationList(); len(recs) > 0 {
		b.WriteString("\n📋 Рекомендации:\n")
		for i, rec := range recs {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	}
	switch {
	case r.RequiresImmediateAttention():
		b.WriteString("\n" + msgUrgent + "\n")
	case r.RequiresIntervention():
		b.WriteString("\n" + msgIntervention + "\n")
	}
	b.WriteString("\n")
	b.WriteString(msgDisclaimer)
	return b.String()
}

// FormatHistory готовит список последних оценок.
func FormatHistory(records []entity.AssessmentRecord) string {
	if len(records) == 0 {
		return msgHistoryEmpty
	}

	var b strings.Builder
	b.WriteString("🗂 Последние оценки:\n")
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s — %s, %.0f%%, %s\n",
			i+1,
			rec.CreatedAt.Format("02.01.2006 15:04"),
			humanLabel(rec.ClassName),
			rec.Confidence*100,
			nameOr(severityNames, rec.Severity))
	}
	return strings.TrimRight(b.String(), "\n")
}

func failureMessage(err error) string {
	var perr *entity.PreprocessError
	var unavailable *entity.BackendUnavailableError
	switch {
	case errors.As(err, &perr):
		return msgFailedImage
	case errors.As(err, &unavailable):
		return msgFailedUnavailable
	default:
		return msgFailedGeneric
	}
}

// humanLabel превращает метку класса в читаемый текст.
func humanLabel(label string) string {
	s := strings.ReplaceAll(label, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func nameOr[K comparable](names map[K]string, key K) string {
	if n, ok := names[key]; ok {
		return n
	}
	return fmt.Sprint(key)
}
