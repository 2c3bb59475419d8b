package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
	"nutrition-bot/internal/logging"
)

// Analyzer конвейер оценки: препроцессинг, классификация, интерпретация оценок.
// Владеет бэкендом. Препроцессинг идёт параллельно, инференс строго по одному.
type Analyzer struct {
	backend      port.ClassificationBackend
	preprocessor port.ImagePreprocessor
	taxonomy     entity.Taxonomy
	logger       *zap.Logger

	slot chan struct{} // занят, пока идёт инференс

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// NewAnalyzer создаёт конвейер. Бэкенд переходит во владение анализатора:
// если конструктор вернул ошибку, бэкенд уже закрыт.
func NewAnalyzer(backend port.ClassificationBackend, preprocessor port.ImagePreprocessor, taxonomy entity.Taxonomy, logger *zap.Logger) (*Analyzer, error) {
	fail := func(err error) (*Analyzer, error) {
		if backend != nil {
			if cerr := backend.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close backend: %w", cerr))
			}
		}
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	if preprocessor == nil {
		return fail(errors.New("preprocessor is not configured"))
	}
	if err := taxonomy.Validate(); err != nil {
		return fail(err)
	}
	if counter, ok := backend.(port.ClassCounter); ok && counter.NumClasses() != taxonomy.Size() {
		return fail(fmt.Errorf("backend has %d classes, taxonomy %s has %d",
			counter.NumClasses(), taxonomy.Name, taxonomy.Size()))
	}

	return &Analyzer{
		backend:      backend,
		preprocessor: preprocessor,
		taxonomy:     taxonomy.Clone(),
		logger:       logger.Named("analyzer"),
		slot:         make(chan struct{}, 1),
	}, nil
}

// Taxonomy возвращает копию таксономии анализатора.
func (a *Analyzer) Taxonomy() entity.Taxonomy {
	return a.taxonomy.Clone()
}

// Analyze выполняет полный анализ изображения. Никогда не паникует и не возвращает
// ошибку: любой сбой превращается в результат с Success=false.
// ctx ограничивает только ожидание бэкенда; начатый инференс не прерывается.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image) entity.AnalysisResult {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(a.logger, "analyzer.analyze", requestID)
	started := time.Now()

	result := a.analyze(ctx, img, opLogger)
	logResult(opLogger, result, time.Since(started))
	return result
}

// AnalyzeBytes декодирует изображение и анализирует его.
func (a *Analyzer) AnalyzeBytes(ctx context.Context, data []byte) entity.AnalysisResult {
	img, err := a.preprocessor.Decode(data)
	if err != nil {
		result := entity.FailedResult(asPreprocessError(err))
		logResult(logging.WithOperation(a.logger, "analyzer.decode", ""), result, 0)
		return result
	}
	return a.Analyze(ctx, img)
}

// Close дожидается текущего инференса и освобождает бэкенд ровно один раз.
// После закрытия Analyze сразу возвращает BackendUnavailableError.
func (a *Analyzer) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()

		a.slot <- struct{}{}
		defer func() { <-a.slot }()

		if a.backend != nil {
			a.closeErr = a.backend.Close()
		}
		a.logger.Info("analyzer closed", zap.Error(a.closeErr))
	})
	return a.closeErr
}

func (a *Analyzer) analyze(ctx context.Context, img image.Image, log *zap.Logger) entity.AnalysisResult {
	if err := a.available(); err != nil {
		return Aggregate(false, -1, 0, a.taxonomy, err)
	}

	tensor, err := a.preprocess(img)
	if err != nil {
		return Aggregate(false, -1, 0, a.taxonomy, err)
	}

	scores, err := a.classify(ctx, tensor)
	if err != nil {
		return Aggregate(false, -1, 0, a.taxonomy, err)
	}

	index, confidence, err := a.interpret(scores, log)
	if err != nil {
		return Aggregate(false, -1, 0, a.taxonomy, err)
	}
	return Aggregate(true, index, confidence, a.taxonomy, nil)
}

func (a *Analyzer) available() error {
	if a.backend == nil {
		return &entity.BackendUnavailableError{Reason: "backend is not configured"}
	}
	a.mu.RLock()
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return &entity.BackendUnavailableError{Reason: "analyzer is closed"}
	}
	return nil
}

func (a *Analyzer) preprocess(img image.Image) (tensor entity.ImageTensor, err error) {
	defer func() {
		if r := recover(); r != nil {
			tensor, err = nil, &entity.PreprocessError{Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	tensor, err = a.preprocessor.Preprocess(img)
	if err != nil {
		return nil, asPreprocessError(err)
	}
	if want := entity.TensorLen(a.preprocessor.Size()); len(tensor) != want {
		return nil, &entity.PreprocessError{
			Reason: fmt.Sprintf("tensor has %d values, want %d", len(tensor), want),
		}
	}
	return tensor, nil
}

func (a *Analyzer) classify(ctx context.Context, tensor entity.ImageTensor) (scores entity.ScoreVector, err error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("waiting for backend: %w", err)
	}
	select {
	case a.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for backend: %w", ctx.Err())
	}
	defer func() { <-a.slot }()

	// Пока ждали, анализатор могли закрыть.
	if err := a.available(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			scores, err = nil, &entity.InferenceError{Err: fmt.Errorf("backend panic: %v", r)}
		}
	}()

	scores, err = a.backend.Classify(context.WithoutCancel(ctx), tensor)
	if err != nil {
		return nil, &entity.InferenceError{Err: err}
	}
	return scores, nil
}

// interpret проверяет контракт бэкенда и выбирает класс.
func (a *Analyzer) interpret(scores entity.ScoreVector, log *zap.Logger) (int, float32, error) {
	if len(scores) == 0 {
		return -1, 0, entity.ErrEmptyScoreVector
	}
	if len(scores) != a.taxonomy.Size() {
		return -1, 0, &entity.ContractViolationError{
			Detail: fmt.Sprintf("score vector has %d entries, taxonomy %s has %d",
				len(scores), a.taxonomy.Name, a.taxonomy.Size()),
		}
	}

	for i, v := range scores {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return -1, 0, &entity.ContractViolationError{
				Detail: fmt.Sprintf("non-finite score %v at index %d", v, i),
			}
		}
	}

	index, confidence, err := Decide(scores)
	if err != nil {
		return -1, 0, err
	}
	if confidence < 0 || confidence > 1 {
		log.Error("confidence out of range, clamped",
			zap.Bool("contract_violation", true),
			zap.Float32("confidence", confidence),
			zap.Int("class_index", index))
		confidence = clamp01(confidence)
	}
	return index, confidence, nil
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func asPreprocessError(err error) error {
	var perr *entity.PreprocessError
	if errors.As(err, &perr) {
		return err
	}
	return &entity.PreprocessError{Reason: "preprocessor failed", Err: err}
}

// logResult пишет итог: дефекты громко, штатные сбои предупреждением.
func logResult(log *zap.Logger, result entity.AnalysisResult, elapsed time.Duration) {
	if result.Success {
		log.Info("analysis complete",
			zap.String("class", result.ClassName),
			zap.Float32("confidence", result.Confidence),
			zap.String("bucket", string(result.Bucket)),
			zap.String("severity", string(result.Severity)),
			zap.Duration("elapsed", elapsed))
		return
	}
	if entity.IsDefect(result.Err) {
		log.Error("analysis failed: backend contract violation",
			zap.Bool("contract_violation", true),
			zap.Error(result.Err))
		return
	}
	log.Warn("analysis failed", zap.Error(result.Err), zap.Duration("elapsed", elapsed))
}
