package entity

import (
	"fmt"
	"maps"
	"slices"
)

// ClassLabel метка класса таксономии.
type ClassLabel string

const (
	ClassSevereAcute   ClassLabel = "severe_acute_malnutrition"
	ClassModerateAcute ClassLabel = "moderate_acute_malnutrition"
	ClassMild          ClassLabel = "mild_malnutrition"
	ClassStunting      ClassLabel = "stunting"
	ClassNormal        ClassLabel = "normal"
	ClassOverweight    ClassLabel = "overweight"
	ClassObesity       ClassLabel = "obesity"
)

// DefaultThreshold единый порог уверенности для степени тяжести.
const DefaultThreshold float32 = 0.6

// Thresholds таблица минимальной уверенности по классам.
type Thresholds struct {
	Uniform  float32                // порог для классов без собственного значения
	PerClass map[ClassLabel]float32 // собственные пороги классов
}

// For возвращает порог для класса.
func (t Thresholds) For(label ClassLabel) float32 {
	if v, ok := t.PerClass[label]; ok {
		return v
	}
	return t.Uniform
}

// Advice описание и рекомендации для класса.
type Advice struct {
	Description string
	Actions     []string
}

// Taxonomy описывает набор классов модели и таблицы их интерпретации.
// Таблицы степени и рекомендаций независимы друг от друга.
type Taxonomy struct {
	Name       string
	Classes    []ClassLabel
	Thresholds Thresholds
	Severities map[ClassLabel]Severity
	Advice     map[ClassLabel]Advice
}

// Size возвращает число классов.
func (t Taxonomy) Size() int {
	return len(t.Classes)
}

// Label возвращает метку класса по индексу.
func (t Taxonomy) Label(index int) (ClassLabel, bool) {
	if index < 0 || index >= len(t.Classes) {
		return "", false
	}
	return t.Classes[index], true
}

// Index возвращает индекс метки или -1.
func (t Taxonomy) Index(label ClassLabel) int {
	return slices.Index(t.Classes, label)
}

// Clone делает глубокую копию, чтобы владелец не делил таблицы с вызывающим кодом.
func (t Taxonomy) Clone() Taxonomy {
	advice := make(map[ClassLabel]Advice, len(t.Advice))
	for k, v := range t.Advice {
		advice[k] = Advice{Description: v.Description, Actions: slices.Clone(v.Actions)}
	}
	return Taxonomy{
		Name:    t.Name,
		Classes: slices.Clone(t.Classes),
		Thresholds: Thresholds{
			Uniform:  t.Thresholds.Uniform,
			PerClass: maps.Clone(t.Thresholds.PerClass),
		},
		Severities: maps.Clone(t.Severities),
		Advice:     advice,
	}
}

// WithThresholds возвращает копию с переопределёнными порогами.
func (t Taxonomy) WithThresholds(overrides map[ClassLabel]float32) (Taxonomy, error) {
	out := t.Clone()
	if len(overrides) == 0 {
		return out, nil
	}
	if out.Thresholds.PerClass == nil {
		out.Thresholds.PerClass = make(map[ClassLabel]float32, len(overrides))
	}
	for label, v := range overrides {
		if out.Index(label) < 0 {
			return Taxonomy{}, fmt.Errorf("taxonomy %s: unknown class %q", t.Name, label)
		}
		if v < 0 || v > 1 {
			return Taxonomy{}, fmt.Errorf("taxonomy %s: threshold for %q out of range: %v", t.Name, label, v)
		}
		out.Thresholds.PerClass[label] = v
	}
	return out, nil
}

// Validate проверяет согласованность таблиц.
func (t Taxonomy) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("taxonomy: empty name")
	}
	if len(t.Classes) == 0 {
		return fmt.Errorf("taxonomy %s: no classes", t.Name)
	}
	seen := make(map[ClassLabel]struct{}, len(t.Classes))
	for _, c := range t.Classes {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("taxonomy %s: duplicate class %q", t.Name, c)
		}
		seen[c] = struct{}{}
	}
	if t.Thresholds.Uniform < 0 || t.Thresholds.Uniform > 1 {
		return fmt.Errorf("taxonomy %s: uniform threshold out of range: %v", t.Name, t.Thresholds.Uniform)
	}
	for label, v := range t.Thresholds.PerClass {
		if _, ok := seen[label]; !ok {
			return fmt.Errorf("taxonomy %s: threshold for unknown class %q", t.Name, label)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("taxonomy %s: threshold for %q out of range: %v", t.Name, label, v)
		}
	}
	return nil
}

// Имена встроенных таксономий.
const (
	TaxonomyThreeClass = "three_class"
	TaxonomySevenClass = "seven_class"
)

// TaxonomyByName возвращает встроенную таксономию.
func TaxonomyByName(name string) (Taxonomy, error) {
	switch name {
	case TaxonomyThreeClass, "3":
		return ThreeClassTaxonomy(), nil
	case TaxonomySevenClass, "7":
		return SevenClassTaxonomy(), nil
	default:
		return Taxonomy{}, fmt.Errorf("unknown taxonomy %q", name)
	}
}
