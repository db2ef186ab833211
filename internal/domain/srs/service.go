package srs

import (
	"errors"
	"time"

	"github.com/brightpath/progress-api/internal/domain"
)

// Common errors
var (
	ErrNilItem        = errors.New("review item cannot be nil")
	ErrInvalidQuality = errors.New("review quality must be between 0 and 5")
)

// Service defines the interface for SRS scheduling operations.
type Service interface {
	// NextReview computes the post-review state for an item given a recall
	// quality between 0 and 5. It returns a new item and never mutates the
	// input. Each call is a distinct forward-only transition: replaying it
	// advances the schedule again.
	NextReview(item *domain.ReviewItem, quality int, now time.Time) (*domain.ReviewItem, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default SM-2 parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NextReview implements the Service interface.
func (s *defaultService) NextReview(
	item *domain.ReviewItem,
	quality int,
	now time.Time,
) (*domain.ReviewItem, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	if quality < 0 || quality > 5 {
		return nil, ErrInvalidQuality
	}

	return nextItem(item, quality, now, s.params), nil
}
