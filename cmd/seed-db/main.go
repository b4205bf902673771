// Command seed-db applies the schema and loads the storefront fixture:
// catalog products, store settings, boutique locations, and the default
// dashboard admin. Everything is upserted so reruns are safe.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/royal-fernet/storefront/internal/storage/postgres"
)

type fixture struct {
	Products []productJSON   `json:"products"`
	Settings json.RawMessage `json:"settings"`
	Stores   []storeJSON     `json:"stores"`
	Admins   []adminJSON     `json:"admins"`
}

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Discount    int             `json:"discount"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	IsFeatured  bool            `json:"is_featured"`
}

type storeJSON struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Hours       string `json:"hours"`
	MapEmbedURL string `json:"map_embed_url"`
	ImageURL    string `json:"image_url"`
}

type adminJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func main() {
	var (
		databaseURL string
		fixtureFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&fixtureFile, "fixture-file", "db/seed/catalog.json", "path to the seed fixture JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, fixtureFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, fixtureFile string) error {
	slog.Info("reading fixture file", slog.String("path", fixtureFile))

	data, err := os.ReadFile(fixtureFile)
	if err != nil {
		return errors.Wrap(err, "read fixture file")
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return errors.Wrap(err, "parse fixture JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, fx.Products); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedSettings(ctx, pool, fx.Settings); err != nil {
		return errors.Wrap(err, "seed settings")
	}
	if err := seedStores(ctx, pool, fx.Stores); err != nil {
		return errors.Wrap(err, "seed stores")
	}
	if err := seedAdmins(ctx, pool, fx.Admins); err != nil {
		return errors.Wrap(err, "seed admins")
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productJSON) error {
	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		images, err := json.Marshal(p.Images)
		if err != nil {
			return errors.Wrapf(err, "marshal images for %s", p.ID)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO products (id, name, description, category, price, discount, stock, images, is_featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				category = EXCLUDED.category,
				price = EXCLUDED.price,
				discount = EXCLUDED.discount,
				stock = EXCLUDED.stock,
				images = EXCLUDED.images,
				is_featured = EXCLUDED.is_featured`,
			p.ID, p.Name, p.Description, p.Category, p.Price, p.Discount, p.Stock, images, p.IsFeatured,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedSettings(ctx context.Context, pool *pgxpool.Pool, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}

	slog.Info("inserting default settings")

	var s struct {
		HeroImages                    json.RawMessage `json:"hero_images"`
		FeaturedCollectionTitle       string          `json:"featured_collection_title"`
		FeaturedCollectionDescription string          `json:"featured_collection_description"`
		PromoSectionTitle             string          `json:"promo_section_title"`
		PromoSectionDescription       string          `json:"promo_section_description"`
		PromoSectionVideoURL          string          `json:"promo_section_video_url"`
		Phone                         string          `json:"phone"`
		ContactEmail                  string          `json:"contact_email"`
		TwitterURL                    string          `json:"twitter_url"`
		InstagramURL                  string          `json:"instagram_url"`
		FacebookURL                   string          `json:"facebook_url"`
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "parse settings")
	}
	if s.HeroImages == nil {
		s.HeroImages = json.RawMessage("[]")
	}

	// Existing settings win: the dashboard may have changed them.
	_, err := pool.Exec(ctx, `
		INSERT INTO settings (
			id, hero_images, featured_collection_title, featured_collection_description,
			promo_section_title, promo_section_description, promo_section_video_url,
			phone, contact_email, twitter_url, instagram_url, facebook_url
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`,
		[]byte(s.HeroImages), s.FeaturedCollectionTitle, s.FeaturedCollectionDescription,
		s.PromoSectionTitle, s.PromoSectionDescription, s.PromoSectionVideoURL,
		s.Phone, s.ContactEmail, s.TwitterURL, s.InstagramURL, s.FacebookURL,
	)
	return err
}

func seedStores(ctx context.Context, pool *pgxpool.Pool, stores []storeJSON) error {
	slog.Info("seeding store locations", slog.Int("count", len(stores)))

	for _, st := range stores {
		// Locations have no natural key, so match on name.
		var exists bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM store_locations WHERE name = $1)`, st.Name,
		).Scan(&exists); err != nil {
			return errors.Wrapf(err, "check store %s", st.Name)
		}
		if exists {
			continue
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO store_locations (name, address, city, phone, hours, map_embed_url, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			st.Name, st.Address, st.City, st.Phone, st.Hours, st.MapEmbedURL, st.ImageURL,
		)
		if err != nil {
			return errors.Wrapf(err, "insert store %s", st.Name)
		}

		slog.Info("inserted store location", slog.String("name", st.Name))
	}

	return nil
}

func seedAdmins(ctx context.Context, pool *pgxpool.Pool, admins []adminJSON) error {
	slog.Info("seeding admins", slog.Int("count", len(admins)))

	for _, a := range admins {
		_, err := pool.Exec(ctx, `
			INSERT INTO admins (name, email)
			VALUES ($1, $2)
			ON CONFLICT (email) DO NOTHING`,
			a.Name, a.Email,
		)
		if err != nil {
			return errors.Wrapf(err, "insert admin %s", a.Email)
		}
	}

	return nil
}
