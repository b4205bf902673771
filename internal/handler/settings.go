package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/royal-fernet/storefront/internal/domain/settings"
)

// settingsJSON mirrors the dashboard's settings form. The same shape is
// accepted on save and returned on read.
type settingsJSON struct {
	HeroImages                    []settings.HeroSlide `json:"hero_images"`
	FeaturedCollectionTitle       string               `json:"featured_collection_title"`
	FeaturedCollectionDescription string               `json:"featured_collection_description"`
	PromoSectionTitle             string               `json:"promo_section_title"`
	PromoSectionDescription       string               `json:"promo_section_description"`
	PromoSectionVideoURL          string               `json:"promo_section_video_url"`
	Phone                         string               `json:"phone"`
	ContactEmail                  string               `json:"contact_email"`
	TwitterURL                    string               `json:"twitter_url"`
	InstagramURL                  string               `json:"instagram_url"`
	FacebookURL                   string               `json:"facebook_url"`
}

func (h *Handler) settingsToJSON(s *settings.Settings) settingsJSON {
	slides := make([]settings.HeroSlide, len(s.HeroImages))
	for i, slide := range s.HeroImages {
		slide.ImageURL = h.absURL(slide.ImageURL)
		slides[i] = slide
	}
	return settingsJSON{
		HeroImages:                    slides,
		FeaturedCollectionTitle:       s.FeaturedCollectionTitle,
		FeaturedCollectionDescription: s.FeaturedCollectionDescription,
		PromoSectionTitle:             s.PromoSectionTitle,
		PromoSectionDescription:       s.PromoSectionDescription,
		PromoSectionVideoURL:          s.PromoSectionVideoURL,
		Phone:                         s.Phone,
		ContactEmail:                  s.ContactEmail,
		TwitterURL:                    s.TwitterURL,
		InstagramURL:                  s.InstagramURL,
		FacebookURL:                   s.FacebookURL,
	}
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "settings not found")
			return
		}
		respondInternal(w, r, errors.Wrap(err, "get settings"))
		return
	}
	respondJSON(w, r, http.StatusOK, h.settingsToJSON(s))
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsJSON
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	s := &settings.Settings{
		HeroImages:                    req.HeroImages,
		FeaturedCollectionTitle:       req.FeaturedCollectionTitle,
		FeaturedCollectionDescription: req.FeaturedCollectionDescription,
		PromoSectionTitle:             req.PromoSectionTitle,
		PromoSectionDescription:       req.PromoSectionDescription,
		PromoSectionVideoURL:          req.PromoSectionVideoURL,
		Phone:                         req.Phone,
		ContactEmail:                  req.ContactEmail,
		TwitterURL:                    req.TwitterURL,
		InstagramURL:                  req.InstagramURL,
		FacebookURL:                   req.FacebookURL,
	}
	if err := h.settings.Save(r.Context(), s); err != nil {
		respondInternal(w, r, errors.Wrap(err, "save settings"))
		return
	}
	respondJSON(w, r, http.StatusOK, h.settingsToJSON(s))
}
