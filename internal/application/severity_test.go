package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nutrition-bot/internal/domain/entity"
)

func TestClassifySeverity_ThreeClassUniformThreshold(t *testing.T) {
	tax := entity.ThreeClassTaxonomy()
	for index := range tax.Classes {
		for _, c := range []float32{0, 0.1, 0.3, 0.59, 0.5999} {
			require.Equal(t, entity.SeverityUncertain, ClassifySeverity(index, c, tax), "index %d conf %v", index, c)
		}
	}

	require.Equal(t, entity.SeverityModerate, ClassifySeverity(0, 0.6, tax))
	require.Equal(t, entity.SeverityNormal, ClassifySeverity(1, 0.6, tax))
	require.Equal(t, entity.SeverityChronic, ClassifySeverity(2, 0.95, tax))
}

func TestClassifySeverity_SevenClassPerClassThresholds(t *testing.T) {
	tax := entity.SevenClassTaxonomy()
	sam := tax.Index(entity.ClassSevereAcute)

	require.Equal(t, entity.SeverityUncertain, ClassifySeverity(sam, 0.84, tax))
	require.Equal(t, entity.SeveritySevere, ClassifySeverity(sam, 0.85, tax))

	cases := []struct {
		label    entity.ClassLabel
		below    float32
		at       float32
		severity entity.Severity
	}{
		{entity.ClassModerateAcute, 0.74, 0.75, entity.SeverityModerate},
		{entity.ClassMild, 0.64, 0.65, entity.SeverityMild},
		{entity.ClassStunting, 0.69, 0.70, entity.SeverityChronic},
		{entity.ClassNormal, 0.79, 0.80, entity.SeverityNormal},
		{entity.ClassOverweight, 0.74, 0.75, entity.SeverityMild},
		{entity.ClassObesity, 0.84, 0.85, entity.SeverityModerate},
	}
	for _, tc := range cases {
		index := tax.Index(tc.label)
		require.Equal(t, entity.SeverityUncertain, ClassifySeverity(index, tc.below, tax), tc.label)
		require.Equal(t, tc.severity, ClassifySeverity(index, tc.at, tax), tc.label)
	}
}

func TestClassifySeverity_UnknownClass(t *testing.T) {
	tax := entity.ThreeClassTaxonomy()
	require.Equal(t, entity.SeverityUnknown, ClassifySeverity(9, 0.9, tax))
	require.Equal(t, entity.SeverityUncertain, ClassifySeverity(9, 0.3, tax))

	delete(tax.Severities, entity.ClassStunting)
	require.Equal(t, entity.SeverityUnknown, ClassifySeverity(2, 0.9, tax))
}

func TestClassifySeverity_CustomTaxonomyNeedsNoCodeChange(t *testing.T) {
	tax := entity.Taxonomy{
		Name:    "binary",
		Classes: []entity.ClassLabel{"healthy", "wasted"},
		Thresholds: entity.Thresholds{
			Uniform:  0.5,
			PerClass: map[entity.ClassLabel]float32{"wasted": 0.9},
		},
		Severities: map[entity.ClassLabel]entity.Severity{
			"healthy": entity.SeverityNormal,
			"wasted":  entity.SeveritySevere,
		},
	}
	require.Equal(t, entity.SeverityNormal, ClassifySeverity(0, 0.55, tax))
	require.Equal(t, entity.SeverityUncertain, ClassifySeverity(1, 0.85, tax))
	require.Equal(t, entity.SeveritySevere, ClassifySeverity(1, 0.9, tax))
}
