package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	loc, err := NewLocation(-6.2, 106.816666)
	require.NoError(t, err)
	assert.Equal(t, -6.2, loc.Latitude)

	_, err = NewLocation(0, 0)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewLocation(91, 10)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "latitude", vErr.Field)

	_, err = NewLocation(10, -181)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestNewTitle(t *testing.T) {
	t.Run("keeps explicit title", func(t *testing.T) {
		title, err := NewTitle("  Lampu mati ", "deskripsi")
		require.NoError(t, err)
		assert.Equal(t, "Lampu mati", title)
	})

	t.Run("derives from first description line", func(t *testing.T) {
		title, err := NewTitle("", "Jalan rusak di depan rumah\nsudah seminggu")
		require.NoError(t, err)
		assert.Equal(t, "Jalan rusak di depan rumah", title)
	})

	t.Run("derived title is truncated", func(t *testing.T) {
		title, err := NewTitle("", strings.Repeat("a", 200))
		require.NoError(t, err)
		assert.Len(t, []rune(title), derivedTitleRunes)
	})

	t.Run("empty everywhere fails", func(t *testing.T) {
		_, err := NewTitle(" ", " ")
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestNewDescription(t *testing.T) {
	_, err := NewDescription("   ")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewDescription(strings.Repeat("x", MaxDescriptionRunes+1))
	assert.True(t, errors.Is(err, ErrValidation))

	d, err := NewDescription(" sampah menumpuk ")
	require.NoError(t, err)
	assert.Equal(t, "sampah menumpuk", d)
}

func TestCategoryAndPriority(t *testing.T) {
	c, err := ParseCategory("kebersihan")
	require.NoError(t, err)
	assert.Equal(t, CategoryCleanliness, c)
	assert.Equal(t, CategoryOther, CategoryOrOther("Banjir"))

	p, err := NewPriority(4)
	require.NoError(t, err)
	assert.True(t, p.IsSet())
	assert.Equal(t, "Sedang-Tinggi", p.Label())

	p, err = NewPriority(0)
	require.NoError(t, err)
	assert.False(t, p.IsSet())

	_, err = NewPriority(6)
	assert.Error(t, err)
}
