// Command catalog-ingest imports distributor catalog feeds into the product
// table. Feeds are large gzip-compressed JSONL files, one product record per
// line, and the same reference usually appears in several feeds. A reference
// is only trusted when at least two feeds list it; single-feed references are
// treated as stale or retracted listings and skipped.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/royal-fernet/storefront/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	numFeeds      = 3
	progressEvery = 1_000_000
	refPrefix     = "RF-"
	maxRefLen     = 32
	defaultStock  = 100
)

// record is one product line in a distributor feed.
type record struct {
	Ref         string          `json:"ref"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Discount    int             `json:"discount"`
	Images      []string        `json:"images"`
}

func (r record) valid() bool {
	return strings.HasPrefix(r.Ref, refPrefix) &&
		len(r.Ref) <= maxRefLen &&
		r.Name != "" &&
		r.Category != "" &&
		r.Price.IsPositive() &&
		r.Discount >= 0 && r.Discount <= 100
}

// fileResult holds candidate records found in a single feed during pass 2.
type fileResult struct {
	masks   map[string]uint
	records map[string]record
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing feedN.jsonl.gz files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files := make([]string, numFeeds)
	for i := range numFeeds {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("feed%d.jsonl.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: Build bloom filters concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("feeds", numFeeds))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: Find records whose reference appears in 2+ feeds.
	slog.Info("pass 2: finding confirmed references")

	confirmed, err := findConfirmedRecords(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find confirmed records")
	}

	slog.Info("confirmed references found", slog.Int("count", len(confirmed)))

	if len(confirmed) == 0 {
		slog.Info("no products to import")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := writeProducts(ctx, pool, confirmed); err != nil {
		return errors.Wrap(err, "write products to database")
	}

	return nil
}

// buildBloomFilters creates one bloom filter of references per feed,
// concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(rec record) {
			filter.AddString(rec.Ref)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("records", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for feed %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_records", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findConfirmedRecords re-streams each feed and checks references against
// OTHER feeds' bloom filters. A reference is confirmed if it appears in 2 or
// more feeds; the first record seen for a confirmed reference wins.
func findConfirmedRecords(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]record, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge bitmasks from all feeds.
	merged := make(map[string]uint)
	records := make(map[string]record)
	for _, r := range results {
		for ref, mask := range r.masks {
			merged[ref] |= mask
			if _, ok := records[ref]; !ok {
				records[ref] = r.records[ref]
			}
		}
	}

	// Keep references appearing in 2+ feeds.
	var confirmed []record
	for ref, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			confirmed = append(confirmed, records[ref])
		}
	}

	return confirmed, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		masks := make(map[string]uint)
		records := make(map[string]record)
		fileBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFile(ctx, path, func(rec record) {
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("records", count),
				)
			}

			// Check if this reference appears in any OTHER feed's filter.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(rec.Ref) {
					masks[rec.Ref] |= fileBit
					if _, ok := records[rec.Ref]; !ok {
						records[rec.Ref] = rec
					}
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan feed %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_records", count),
			slog.Int("candidates", len(masks)),
		)

		results[idx] = fileResult{masks: masks, records: records}
		return nil
	}
}

// streamGzFile opens a gzip-compressed JSONL file and calls fn for each
// valid record. Malformed or incomplete lines are skipped.
func streamGzFile(ctx context.Context, path string, fn func(rec record)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if !rec.valid() {
			continue
		}
		fn(rec)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeProducts upserts all confirmed records into the product table.
func writeProducts(ctx context.Context, pool *pgxpool.Pool, records []record) error {
	slog.Info("writing products to database", slog.Int("count", len(records)))

	for i, rec := range records {
		images, err := json.Marshal(rec.Images)
		if err != nil {
			return errors.Wrapf(err, "marshal images for %s", rec.Ref)
		}
		if rec.Images == nil {
			images = []byte("[]")
		}

		_, err = pool.Exec(ctx, `
			INSERT INTO products (id, name, description, category, price, discount, stock, images)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				category = EXCLUDED.category,
				price = EXCLUDED.price,
				discount = EXCLUDED.discount,
				images = EXCLUDED.images`,
			rec.Ref, rec.Name, rec.Description, rec.Category, rec.Price, rec.Discount, defaultStock, images,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", rec.Ref)
		}

		if (i+1)%100 == 0 || i+1 == len(records) {
			slog.Info("write progress", slog.Int("written", i+1), slog.Int("total", len(records)))
		}
	}

	return nil
}
