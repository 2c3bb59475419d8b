package entity

// ImageTensor плоский тензор изображения size×size×3, строки подряд, каналы RGB чередуются.
type ImageTensor []float32

// ScoreVector оценки модели, индекс соответствует классу таксономии.
type ScoreVector []float32

// TensorLen возвращает ожидаемую длину тензора для квадратного входа.
func TensorLen(size int) int {
	return size * size * 3
}
