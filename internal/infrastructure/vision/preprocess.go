package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"

	"nutrition-bot/internal/domain/entity"
	"nutrition-bot/internal/domain/port"
)

// DefaultInputSize сторона входа модели по умолчанию.
const DefaultInputSize = 224

// Preprocessor масштабирует изображение до квадрата и нормализует каналы.
// Состояния нет, вызовы можно выполнять параллельно.
type Preprocessor struct {
	size    int
	profile Normalization
	stats   channelStats
}

// NewPreprocessor создаёт препроцессор с заданной стороной и профилем.
func NewPreprocessor(size int, profile Normalization) (*Preprocessor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid input size %d", size)
	}
	stats, err := profile.stats()
	if err != nil {
		return nil, err
	}
	return &Preprocessor{size: size, profile: profile, stats: stats}, nil
}

// Size возвращает сторону входа.
func (p *Preprocessor) Size() int {
	return p.size
}

// Profile возвращает профиль нормализации.
func (p *Preprocessor) Profile() Normalization {
	return p.profile
}

// Preprocess растягивает изображение до size×size без сохранения пропорций
// и возвращает тензор HWC с чередованием R, G, B.
func (p *Preprocessor) Preprocess(img image.Image) (entity.ImageTensor, error) {
	if img == nil {
		return nil, &entity.PreprocessError{Reason: "nil image"}
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, &entity.PreprocessError{
			Reason: fmt.Sprintf("image has zero dimension (%dx%d)", bounds.Dx(), bounds.Dy()),
		}
	}

	resized, err := resample(img, p.size)
	if err != nil {
		return nil, &entity.PreprocessError{
			Reason: "resize failed",
			Err:    errors.Wrapf(err, "%s resample to %dx%d", Resampler, p.size, p.size),
		}
	}
	rb := resized.Bounds()
	if rb.Dx() != p.size || rb.Dy() != p.size {
		return nil, &entity.PreprocessError{
			Reason: fmt.Sprintf("resampler returned %dx%d, want %dx%d", rb.Dx(), rb.Dy(), p.size, p.size),
		}
	}

	tensor := make(entity.ImageTensor, entity.TensorLen(p.size))
	i := 0
	for y := rb.Min.Y; y < rb.Max.Y; y++ {
		for x := rb.Min.X; x < rb.Max.X; x++ {
			// Альфа отбрасывается, каналы берутся без предумножения.
			c := color.NRGBAModel.Convert(resized.At(x, y)).(color.NRGBA)
			tensor[i] = p.stats.apply(0, c.R)
			tensor[i+1] = p.stats.apply(1, c.G)
			tensor[i+2] = p.stats.apply(2, c.B)
			i += 3
		}
	}
	return tensor, nil
}

// Decode декодирует байты изображения.
func (p *Preprocessor) Decode(data []byte) (image.Image, error) {
	img, _, err := DecodeImage(data)
	return img, err
}

// DecodeImage декодирует JPEG, PNG или GIF.
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", &entity.PreprocessError{Reason: "empty image data"}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &entity.PreprocessError{
			Reason: "unsupported or corrupt image",
			Err:    errors.Wrap(err, "image.Decode"),
		}
	}
	return img, format, nil
}

// Проверка реализации интерфейса
var _ port.ImagePreprocessor = (*Preprocessor)(nil)
