package classifier

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountVectorizer_Unigrams(t *testing.T) {
	v := NewCountVectorizer(1, 1.0)
	x, err := v.FitTransform([]string{"water water food", "food shelter"})
	require.NoError(t, err)

	assert.Equal(t, []string{"food", "shelter", "water"}, v.Terms)
	r, c := x.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, x.At(0, 0))
	assert.Equal(t, 2.0, x.At(0, 2))
	assert.Equal(t, 0.0, x.At(0, 1))
	assert.Equal(t, []int{0, 1}, x.Rows[1].Indices)
}

func TestCountVectorizer_Bigrams(t *testing.T) {
	v := NewCountVectorizer(2, 1.0)
	require.NoError(t, v.Fit([]string{"need clean water"}))

	want := []string{"clean", "clean water", "need", "need clean", "water"}
	if diff := cmp.Diff(want, v.Terms); diff != "" {
		t.Errorf("Terms mismatch (-want +got):\n%s", diff)
	}
}

func TestCountVectorizer_MaxDF(t *testing.T) {
	docs := []string{"help food", "help water", "help shelter", "food"}

	v := NewCountVectorizer(1, 0.5)
	require.NoError(t, v.Fit(docs))
	// help appears in 3/4 documents; food in exactly 2/4 is kept.
	assert.NotContains(t, v.Terms, "help")
	assert.Contains(t, v.Terms, "food")

	all := NewCountVectorizer(1, 1.0)
	require.NoError(t, all.Fit(docs))
	assert.Contains(t, all.Terms, "help")
}

func TestCountVectorizer_Errors(t *testing.T) {
	v := NewCountVectorizer(1, 1.0)
	_, err := v.Transform([]string{"x"})
	assert.True(t, errors.Is(err, ErrNotFitted))

	assert.True(t, errors.Is(v.Fit(nil), ErrEmptyDataset))
	assert.True(t, errors.Is(v.Fit([]string{"!!!", ""}), ErrEmptyVocabulary))
}

func TestCountVectorizer_UnknownTermsIgnored(t *testing.T) {
	v := NewCountVectorizer(1, 1.0)
	require.NoError(t, v.Fit([]string{"food"}))
	x, err := v.Transform([]string{"earthquake"})
	require.NoError(t, err)
	assert.Empty(t, x.Rows[0].Indices)
}
