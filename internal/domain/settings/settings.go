package settings

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when the settings singleton has never been saved.
var ErrNotFound = errors.New("settings not found")

// HeroSlide is one slide of the landing page hero carousel.
type HeroSlide struct {
	ID          string `json:"id"`
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	ButtonText  string `json:"buttonText"`
	ImageURL    string `json:"imageUrl"`
}

// Settings is the storefront content configuration. It is a singleton:
// there is exactly one row, replaced whole on every save.
type Settings struct {
	HeroImages                    []HeroSlide
	FeaturedCollectionTitle       string
	FeaturedCollectionDescription string
	PromoSectionTitle             string
	PromoSectionDescription       string
	PromoSectionVideoURL          string
	Phone                         string
	ContactEmail                  string
	TwitterURL                    string
	InstagramURL                  string
	FacebookURL                   string
}

// Repository defines persistence for the settings singleton. Get returns
// ErrNotFound until the first Save.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
