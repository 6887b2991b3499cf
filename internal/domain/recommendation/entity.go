// Package recommendation defines the AI recommendation domain entity
package recommendation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Domain errors for recommendation operations
var (
	ErrInvalidType   = errors.New("recommendation type must be meal, snack, alternative or insight")
	ErrInvalidRating = errors.New("rating must be 1 (thumbs up) or -1 (thumbs down)")
	ErrNotFound      = errors.New("recommendation not found")
	ErrNotOwner      = errors.New("only the owner can rate this recommendation")
)

// Type classifies a recommendation
type Type string

const (
	TypeMeal        Type = "meal"
	TypeSnack       Type = "snack"
	TypeAlternative Type = "alternative"
	TypeInsight     Type = "insight"
)

// IsValid reports whether the type is one of the allowed values
func (t Type) IsValid() bool {
	switch t {
	case TypeMeal, TypeSnack, TypeAlternative, TypeInsight:
		return true
	}
	return false
}

// Rating values. Zero means the user has not rated the recommendation.
const (
	RatingUp   = 1
	RatingDown = -1
)

// Context captures the data the recommendation was generated from
type Context struct {
	RecentFoods         []string `json:"recent_foods,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	CalorieGoal         int      `json:"calorie_goal,omitempty"`
	PreferredCuisine    string   `json:"preferred_cuisine,omitempty"`
	Provider            string   `json:"provider,omitempty"`
	Model               string   `json:"model,omitempty"`
}

// Recommendation represents a stored AI-generated suggestion
type Recommendation struct {
	id        uuid.UUID
	userID    uuid.UUID
	recType   Type
	text      string
	context   Context
	isUsed    bool
	rating    int
	createdAt time.Time
}

// New creates a recommendation with validation
func New(userID uuid.UUID, recType Type, text string, ctx Context) (*Recommendation, error) {
	if !recType.IsValid() {
		return nil, ErrInvalidType
	}

	return &Recommendation{
		id:        uuid.New(),
		userID:    userID,
		recType:   recType,
		text:      text,
		context:   ctx,
		createdAt: time.Now(),
	}, nil
}

// Reconstruct rebuilds a recommendation from persisted state
func Reconstruct(
	id, userID uuid.UUID,
	recType Type,
	text string,
	ctx Context,
	isUsed bool,
	rating int,
	createdAt time.Time,
) *Recommendation {
	return &Recommendation{
		id:        id,
		userID:    userID,
		recType:   recType,
		text:      text,
		context:   ctx,
		isUsed:    isUsed,
		rating:    rating,
		createdAt: createdAt,
	}
}

// ID returns the recommendation's ID
func (r *Recommendation) ID() uuid.UUID { return r.id }

// UserID returns the owning user's ID
func (r *Recommendation) UserID() uuid.UUID { return r.userID }

// Type returns the recommendation type
func (r *Recommendation) Type() Type { return r.recType }

// Text returns the generated recommendation text
func (r *Recommendation) Text() string { return r.text }

// Context returns the generation context
func (r *Recommendation) Context() Context { return r.context }

// IsUsed reports whether the user acted on the recommendation
func (r *Recommendation) IsUsed() bool { return r.isUsed }

// Rating returns the user's rating, 0 when unrated
func (r *Recommendation) Rating() int { return r.rating }

// CreatedAt returns when the recommendation was generated
func (r *Recommendation) CreatedAt() time.Time { return r.createdAt }

// MarkUsed flags the recommendation as acted on
func (r *Recommendation) MarkUsed() {
	r.isUsed = true
}

// Rate records a thumbs up or thumbs down
func (r *Recommendation) Rate(rating int) error {
	if rating != RatingUp && rating != RatingDown {
		return ErrInvalidRating
	}
	r.rating = rating
	return nil
}
