package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutrition-bot/internal/domain/entity"
)

func TestRecommend_LowConfidenceGivesSingleGenericAdvice(t *testing.T) {
	for _, tax := range []entity.Taxonomy{entity.ThreeClassTaxonomy(), entity.SevenClassTaxonomy()} {
		for index, label := range tax.Classes {
			description, recs := Recommend(index, 0.5, tax)
			require.Equal(t, []string{LowConfidenceAdvice}, recs, label)
			assert.True(t, strings.HasPrefix(description, tax.Advice[label].Description), label)
			assert.True(t, strings.HasSuffix(description, "(Low confidence - recommend professional assessment)"), label)
		}
	}
}

func TestRecommend_QualifierFollowsBucket(t *testing.T) {
	tax := entity.ThreeClassTaxonomy()
	normal := tax.Index(entity.ClassNormal)

	description, recs := Recommend(normal, 0.9, tax)
	assert.Equal(t, "Normal nutritional status detected (High confidence)", description)
	assert.Equal(t, "Continue maintaining healthy nutrition", recs[0])

	description, _ = Recommend(normal, 0.7, tax)
	assert.Equal(t, "Normal nutritional status detected (Medium confidence)", description)

	description, _ = Recommend(normal, 0.8, tax)
	assert.Equal(t, "Normal nutritional status detected (High confidence)", description)
}

func TestRecommend_ClassSpecificActions(t *testing.T) {
	tax := entity.SevenClassTaxonomy()
	for index, label := range tax.Classes {
		_, recs := Recommend(index, 0.95, tax)
		require.Equal(t, tax.Advice[label].Actions, recs, label)
		assert.GreaterOrEqual(t, len(recs), 3)
		assert.LessOrEqual(t, len(recs), 5)
	}
}

func TestRecommend_UnknownClass(t *testing.T) {
	tax := entity.ThreeClassTaxonomy()

	description, recs := Recommend(7, 0.9, tax)
	assert.Equal(t, "Unknown classification (High confidence)", description)
	assert.Equal(t, []string{"Please consult with a healthcare professional for proper assessment"}, recs)

	_, recs = Recommend(7, 0.2, tax)
	assert.Equal(t, []string{LowConfidenceAdvice}, recs)
}

func TestRecommend_ReturnsCopy(t *testing.T) {
	tax := entity.ThreeClassTaxonomy()
	_, recs := Recommend(1, 0.9, tax)
	recs[0] = "changed"

	_, again := Recommend(1, 0.9, tax)
	assert.Equal(t, "Continue maintaining healthy nutrition", again[0])
	assert.Equal(t, "Continue maintaining healthy nutrition", tax.Advice[entity.ClassNormal].Actions[0])
}
