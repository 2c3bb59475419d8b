package port

import (
	"image"

	"nutrition-bot/internal/domain/entity"
)

// ImagePreprocessor приводит изображение к тензору фиксированной формы
type ImagePreprocessor interface {
	// Preprocess масштабирует и нормализует изображение
	Preprocess(img image.Image) (entity.ImageTensor, error)

	// Decode декодирует изображение из байтов
	Decode(data []byte) (image.Image, error)

	// Size возвращает сторону квадратного входа
	Size() int
}
