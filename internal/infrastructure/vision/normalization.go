package vision

import "fmt"

// Normalization именованный профиль нормализации каналов.
// Профиль должен совпадать с тем, на котором обучалась модель: ошибка не видна
// в рантайме и только ухудшает точность.
type Normalization string

const (
	// NormalizeLinear приводит значения к [-1, 1]: (v/255 - 0.5) / 0.5.
	NormalizeLinear Normalization = "linear"
	// NormalizeImageNet вычитает среднее и делит на СКО по каналам (torchvision).
	NormalizeImageNet Normalization = "imagenet"
	// NormalizeUnit приводит значения к [0, 1]: v/255.
	NormalizeUnit Normalization = "unit"
)

// Константы torchvision для ImageNet.
var (
	imageNetMean = [3]float32{0.485, 0.456, 0.406}
	imageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// channelStats среднее и СКО по каналам R, G, B в шкале [0, 1].
type channelStats struct {
	mean [3]float32
	std  [3]float32
}

func (s channelStats) apply(channel int, v uint8) float32 {
	return (float32(v)/255 - s.mean[channel]) / s.std[channel]
}

// ParseNormalization разбирает имя профиля.
func ParseNormalization(name string) (Normalization, error) {
	n := Normalization(name)
	if _, err := n.stats(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Normalization) stats() (channelStats, error) {
	switch n {
	case NormalizeLinear:
		return channelStats{
			mean: [3]float32{0.5, 0.5, 0.5},
			std:  [3]float32{0.5, 0.5, 0.5},
		}, nil
	case NormalizeImageNet:
		return channelStats{mean: imageNetMean, std: imageNetStd}, nil
	case NormalizeUnit:
		return channelStats{std: [3]float32{1, 1, 1}}, nil
	default:
		return channelStats{}, fmt.Errorf("unknown normalization profile %q", string(n))
	}
}
