package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
	"nutrition-bot/internal/logging"
)

// ONNXConfig параметры ONNX-модели классификации.
type ONNXConfig struct {
	ModelPath   string
	LibraryPath string // путь к libonnxruntime; пусто: путь по умолчанию
	InputName   string
	OutputName  string
	InputSize   int // сторона квадратного входа, вход [1, size, size, 3]
	NumClasses  int // выход [1, classes]
}

// ONNXBackend выполняет классификацию через onnxruntime.
// Тензоры выделяются один раз, поэтому вызовы Classify нельзя делать параллельно.
type ONNXBackend struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inputLen     int
	numClasses   int
	logger       *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// OpenONNX загружает модель. При ошибке всё, что успели выделить, освобождается.
func OpenONNX(cfg ONNXConfig, logger *zap.Logger) (backend *ONNXBackend, err error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("onnx: model path is empty")
	}
	if cfg.InputSize <= 0 || cfg.NumClasses <= 0 {
		return nil, fmt.Errorf("onnx: invalid shape: input %d, classes %d", cfg.InputSize, cfg.NumClasses)
	}
	opLogger := logging.WithOperation(logger, "onnx.open", "")

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, logging.NewOperationError("onnx.initialize_environment", "", err)
		}
	}

	b := &ONNXBackend{
		inputLen:   entity.TensorLen(cfg.InputSize),
		numClasses: cfg.NumClasses,
		logger:     logger.Named("onnx_backend"),
	}
	defer func() {
		if err != nil {
			b.release()
		}
	}()

	inputShape := ort.NewShape(1, int64(cfg.InputSize), int64(cfg.InputSize), 3)
	b.inputTensor, err = ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, logging.NewOperationError("onnx.create_input_tensor", "", err)
	}

	b.outputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(cfg.NumClasses)))
	if err != nil {
		return nil, logging.NewOperationError("onnx.create_output_tensor", "", err)
	}

	b.session, err = ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.ArbitraryTensor{b.inputTensor}, []ort.ArbitraryTensor{b.outputTensor},
		nil)
	if err != nil {
		return nil, logging.NewOperationError("onnx.create_session", "", err)
	}

	opLogger.Info("model loaded",
		zap.String("model", cfg.ModelPath),
		zap.Int("input_size", cfg.InputSize),
		zap.Int("classes", cfg.NumClasses))
	return b, nil
}

// NumClasses возвращает размер выхода модели.
func (b *ONNXBackend) NumClasses() int {
	return b.numClasses
}

// Classify копирует тензор во входной буфер, запускает сессию и возвращает копию выхода.
// Run у onnxruntime не прерывается, поэтому контекст не используется.
func (b *ONNXBackend) Classify(_ context.Context, tensor entity.ImageTensor) (entity.ScoreVector, error) {
	if len(tensor) != b.inputLen {
		return nil, fmt.Errorf("onnx: input has %d values, model expects %d", len(tensor), b.inputLen)
	}
	if b.session == nil {
		return nil, errors.New("onnx: session is closed")
	}

	copy(b.inputTensor.GetData(), tensor)
	if err := b.session.Run(); err != nil {
		return nil, logging.NewOperationError("onnx.run", "", err)
	}

	out := b.outputTensor.GetData()
	scores := make(entity.ScoreVector, len(out))
	copy(scores, out)
	return scores, nil
}

// Close освобождает сессию и тензоры. Повторные вызовы ничего не делают.
func (b *ONNXBackend) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.release()
		b.logger.Info("model released")
	})
	return b.closeErr
}

func (b *ONNXBackend) release() error {
	var errs []error
	if b.session != nil {
		if err := b.session.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy session: %w", err))
		}
		b.session = nil
	}
	if b.inputTensor != nil {
		if err := b.inputTensor.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy input tensor: %w", err))
		}
		b.inputTensor = nil
	}
	if b.outputTensor != nil {
		if err := b.outputTensor.Destroy(); err != nil {
			errs = append(errs, fmt.Errorf("destroy output tensor: %w", err))
		}
		b.outputTensor = nil
	}
	return errors.Join(errs...)
}

// Shutdown уничтожает окружение onnxruntime. Вызывается один раз при завершении процесса.
func Shutdown() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// Проверка реализации интерфейсов
var (
	_ port.ClassificationBackend = (*ONNXBackend)(nil)
	_ port.ClassCounter          = (*ONNXBackend)(nil)
)
