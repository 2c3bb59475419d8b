package app

import "nutrition-bot/internal/domain/entity"

// Decide возвращает индекс максимальной оценки и её значение.
// При равенстве побеждает меньший индекс: проход слева направо со строгим сравнением.
// Softmax не применяется, оценки должны быть нормированы бэкендом.
func Decide(scores entity.ScoreVector) (int, float32, error) {
	if len(scores) == 0 {
		return -1, 0, entity.ErrEmptyScoreVector
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best, scores[best], nil
}
