package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
)

func TestPlaceholderRecommend(t *testing.T) {
	p := NewPlaceholder(func(n int) int { return n - 1 })

	rec, err := p.Recommend(context.Background(), "Joint pain and muscle stiffness")
	require.NoError(t, err)
	assert.Equal(t, "basti", rec.RecommendedTherapyID)
	assert.Equal(t, 0.85, rec.Confidence)
	assert.Equal(t, "Based on your symptoms, this therapy appears most suitable.", rec.Reasoning)
	assert.Nil(t, rec.Therapy)
}

func TestPlaceholderRequiresSymptoms(t *testing.T) {
	_, err := NewPlaceholder(nil).Recommend(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNoSymptoms)
	assert.Equal(t, "Please describe your symptoms.", err.Error())
}

func TestPlaceholderDefaultPickStaysInRange(t *testing.T) {
	p := NewPlaceholder(nil)
	ids := map[string]bool{"vamana": true, "virechana": true, "nasya": true, "basti": true}
	for i := 0; i < 50; i++ {
		rec, err := p.Recommend(context.Background(), "fatigue")
		require.NoError(t, err)
		assert.True(t, ids[rec.RecommendedTherapyID], rec.RecommendedTherapyID)
	}
}

func TestResolve(t *testing.T) {
	items := therapies.DefaultTherapies()

	rec := Resolve(Recommendation{RecommendedTherapyID: "nasya"}, items)
	require.NotNil(t, rec.Therapy)
	assert.Equal(t, "Nasya", rec.Therapy.Title)

	missing := Resolve(Recommendation{RecommendedTherapyID: "shirodhara"}, items)
	assert.Nil(t, missing.Therapy)
}
