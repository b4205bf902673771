package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royal-fernet/storefront/internal/domain/settings"
)

var _ settings.Repository = (*SettingsRepository)(nil)

// SettingsRepository implements settings.Repository backed by PostgreSQL.
// The settings table holds a single row with id=1, upserted whole on save.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a SettingsRepository using the given pool.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the settings singleton, or settings.ErrNotFound before the
// first save.
func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	var (
		s    settings.Settings
		hero []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT hero_images, featured_collection_title, featured_collection_description,
		       promo_section_title, promo_section_description, promo_section_video_url,
		       phone, contact_email, twitter_url, instagram_url, facebook_url
		FROM settings WHERE id = 1`,
	).Scan(&hero, &s.FeaturedCollectionTitle, &s.FeaturedCollectionDescription,
		&s.PromoSectionTitle, &s.PromoSectionDescription, &s.PromoSectionVideoURL,
		&s.Phone, &s.ContactEmail, &s.TwitterURL, &s.InstagramURL, &s.FacebookURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrNotFound
		}
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	if err := json.Unmarshal(hero, &s.HeroImages); err != nil {
		return nil, fmt.Errorf("decoding hero images: %w", err)
	}
	return &s, nil
}

// Save upserts the settings singleton.
func (r *SettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	hero := s.HeroImages
	if hero == nil {
		hero = []settings.HeroSlide{}
	}
	heroJSON, err := json.Marshal(hero)
	if err != nil {
		return fmt.Errorf("marshaling hero images: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO settings (id, hero_images, featured_collection_title, featured_collection_description,
		                      promo_section_title, promo_section_description, promo_section_video_url,
		                      phone, contact_email, twitter_url, instagram_url, facebook_url)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			hero_images = EXCLUDED.hero_images,
			featured_collection_title = EXCLUDED.featured_collection_title,
			featured_collection_description = EXCLUDED.featured_collection_description,
			promo_section_title = EXCLUDED.promo_section_title,
			promo_section_description = EXCLUDED.promo_section_description,
			promo_section_video_url = EXCLUDED.promo_section_video_url,
			phone = EXCLUDED.phone,
			contact_email = EXCLUDED.contact_email,
			twitter_url = EXCLUDED.twitter_url,
			instagram_url = EXCLUDED.instagram_url,
			facebook_url = EXCLUDED.facebook_url`,
		heroJSON, s.FeaturedCollectionTitle, s.FeaturedCollectionDescription,
		s.PromoSectionTitle, s.PromoSectionDescription, s.PromoSectionVideoURL,
		s.Phone, s.ContactEmail, s.TwitterURL, s.InstagramURL, s.FacebookURL,
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
