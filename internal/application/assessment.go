package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
	"nutrition-bot/internal/logging"
)

// AssessmentService сторона вызывающего: кэш, анализ, история.
type AssessmentService struct {
	analyzer *Analyzer
	history  port.ResultRepository
	cache    port.ResultCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewAssessmentService создаёт сервис. history и cache могут быть nil.
func NewAssessmentService(analyzer *Analyzer, history port.ResultRepository, cache port.ResultCache, logger *zap.Logger) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		analyzer: analyzer,
		history:  history,
		cache:    cache,
		logger:   logger.Named("assessment_service"),
		now:      time.Now,
	}
}

// Assess оценивает фото пользователя. Сбои кэша и истории не портят результат анализа.
func (s *AssessmentService) Assess(ctx context.Context, userID int64, photo []byte) entity.AnalysisResult {
	if s.analyzer == nil {
		return entity.FailedResult(&entity.BackendUnavailableError{Reason: "analyzer is not configured"})
	}
	// Закрытый анализатор не отвечает и из кэша.
	if err := s.analyzer.available(); err != nil {
		return entity.FailedResult(err)
	}

	key := s.cacheKey(photo)
	opLogger := logging.WithOperation(s.logger, "assessment.assess", key)

	if s.cache != nil && len(photo) > 0 {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			opLogger.Warn("cache read failed", logging.ErrorFields(err)...)
		case ok:
			opLogger.Debug("cache hit", zap.String("class", cached.ClassName))
			s.record(ctx, userID, cached, opLogger)
			return cached
		}
	}

	result := s.analyzer.AnalyzeBytes(ctx, photo)
	if !result.Success {
		return result
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			opLogger.Warn("cache write failed", logging.ErrorFields(err)...)
		}
	}
	s.record(ctx, userID, result, opLogger)
	return result
}

// History возвращает последние оценки пользователя, новые первыми.
func (s *AssessmentService) History(ctx context.Context, userID int64, limit int) ([]entity.AssessmentRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	records, err := s.history.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return records, nil
}

func (s *AssessmentService) record(ctx context.Context, userID int64, result entity.AnalysisResult, log *zap.Logger) {
	if s.history == nil {
		return
	}
	rec := entity.NewAssessmentRecord(uuid.NewString(), userID, result, s.now().UTC())
	if err := s.history.Append(ctx, rec); err != nil {
		log.Error("failed to persist assessment",
			append(logging.ErrorFields(err), zap.Int64("user_id", userID))...)
	}
}

// cacheKey отпечаток фото с учётом таксономии анализатора.
func (s *AssessmentService) cacheKey(photo []byte) string {
	sum := sha1.Sum(photo)
	return fmt.Sprintf("assessment:%s:%s", s.analyzer.taxonomy.Name, hex.EncodeToString(sum[:]))
}
