package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextReviewValidation(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	_, err := svc.NextReview(nil, 4, now)
	assert.ErrorIs(t, err, ErrNilItem)

	item := newTestItem(t)

	_, err = svc.NextReview(item, -1, now)
	assert.ErrorIs(t, err, ErrInvalidQuality)

	_, err = svc.NextReview(item, 6, now)
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestNextReviewAppliesAlgorithm(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	item := newTestItem(t)

	next, err := svc.NextReview(item, 5, now)
	require.NoError(t, err)

	assert.Equal(t, 1, next.IntervalDays)
	assert.Equal(t, 1, next.Repetitions)
	assert.InDelta(t, 2.6, next.EaseFactor, 0.0001)
	assert.Equal(t, now, next.LastReviewedAt)
}

func TestNextReviewWithCustomParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	params.MatureThresholdDays = 5
	svc := NewServiceWithParams(params)
	now := time.Now().UTC()

	item := newTestItem(t)
	item.IntervalDays = 1
	item.Repetitions = 1

	next, err := svc.NextReview(item, 4, now)
	require.NoError(t, err)

	// Second pass lands on the 6-day interval, past the lowered threshold.
	assert.Equal(t, 6, next.IntervalDays)
	assert.Equal(t, "mature", string(next.Bucket))
}
