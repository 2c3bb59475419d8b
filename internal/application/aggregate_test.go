package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrition-bot/internal/domain/entity"
)

func TestAggregate_Success(t *testing.T) {
	tax := entity.SevenClassTaxonomy()
	sam := tax.Index(entity.ClassSevereAcute)

	result := Aggregate(true, sam, 0.92, tax, nil)
	require.True(t, result.Success)
	assert.Equal(t, "severe_acute_malnutrition", result.ClassName)
	assert.Equal(t, sam, result.ClassIndex)
	assert.Equal(t, float32(0.92), result.Confidence)
	assert.Equal(t, entity.ConfidenceHigh, result.Bucket)
	assert.Equal(t, entity.SeveritySevere, result.Severity)
	assert.Equal(t, "Severe Acute Malnutrition (SAM) detected (High confidence)", result.Description)
	assert.Equal(t, "Immediate medical attention required", result.Recommendations[0])
	assert.NoError(t, result.Err)
	assert.True(t, result.RequiresImmediateAttention())
	assert.False(t, result.RequiresIntervention())
}

func TestAggregate_AttentionFollowsClassNotSeverity(t *testing.T) {
	tax := entity.SevenClassTaxonomy()

	// Ниже порога SAM (0.85) степень UNCERTAIN, но срочность определяется классом.
	sam := Aggregate(true, tax.Index(entity.ClassSevereAcute), 0.82, tax, nil)
	assert.Equal(t, entity.SeverityUncertain, sam.Severity)
	assert.True(t, sam.RequiresImmediateAttention())

	mam := Aggregate(true, tax.Index(entity.ClassModerateAcute), 0.9, tax, nil)
	assert.Equal(t, entity.SeverityModerate, mam.Severity)
	assert.False(t, mam.RequiresImmediateAttention())
	assert.True(t, mam.RequiresIntervention())

	obesity := Aggregate(true, tax.Index(entity.ClassObesity), 0.72, tax, nil)
	assert.Equal(t, entity.SeverityUncertain, obesity.Severity)
	assert.True(t, obesity.RequiresIntervention())
}

func TestAggregate_BelowThreshold(t *testing.T) {
	tax := entity.ThreeClassTaxonomy()
	result := Aggregate(true, 0, 0.55, tax, nil)

	require.True(t, result.Success)
	assert.Equal(t, "moderate_acute_malnutrition", result.ClassName)
	assert.Equal(t, entity.ConfidenceLow, result.Bucket)
	assert.Equal(t, entity.SeverityUncertain, result.Severity)
	assert.Equal(t, []string{LowConfidenceAdvice}, result.Recommendations)
	assert.False(t, result.RequiresIntervention())
}

func TestAggregate_Failure(t *testing.T) {
	tax := entity.ThreeClassTaxonomy()
	cause := errors.New("camera exploded")

	result := Aggregate(false, 2, 0.9, tax, cause)
	assert.False(t, result.Success)
	assert.Equal(t, entity.ClassError, result.ClassName)
	assert.Equal(t, -1, result.ClassIndex)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, "camera exploded", result.Description)
	assert.Empty(t, result.Recommendations)
	assert.ErrorIs(t, result.Err, cause)

	result = Aggregate(false, 0, 0, tax, nil)
	assert.Equal(t, "analysis failed", result.Description)
}

func TestAggregate_IndexOutsideTaxonomy(t *testing.T) {
	result := Aggregate(true, 5, 0.9, entity.ThreeClassTaxonomy(), nil)
	assert.True(t, result.Success)
	assert.Equal(t, entity.ClassUnknown, result.ClassName)
	assert.Equal(t, entity.SeverityUnknown, result.Severity)
}
