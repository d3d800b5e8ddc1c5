// Command catalog-import loads supplier catalog feeds into the products
// table. A feed is a gzip-compressed file with one JSON product per line:
//
//	{"id": "sku-123", "name": "Laptop 15\"", "price": "999.99", "stock": 25}
//
// Feeds are parsed concurrently; the first feed to mention a product id wins
// and later duplicates are skipped. Imported products are upserted, so a
// re-import refreshes price and stock and revives soft-deleted entries.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jartiste/smartshop/internal/domain/product"
	"github.com/jartiste/smartshop/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001
	progressEvery = 100_000
)

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz feed files")
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
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	feeds, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(feeds) == 0 {
		return errors.Errorf("no *.jsonl.gz feeds found in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	products := repository.NewProductRepository(pool)

	// One dedupe filter shared by all feed readers; a single writer drains
	// the channel so upserts never interleave.
	dedupe := newDeduper()
	lines := make(chan product.Product, 1024)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var written uint64
		for p := range lines {
			if err := products.Upsert(ctx, &p); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}
			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written))
			}
		}
		slog.Info("import complete", slog.Uint64("written", written))
		return nil
	})

	readers, readerCtx := errgroup.WithContext(ctx)
	for _, feed := range feeds {
		readers.Go(importFeed(readerCtx, feed, dedupe, lines))
	}
	err = readers.Wait()
	close(lines)

	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	return err
}

// importFeed streams one feed file, decodes each line, and forwards products
// not seen before to the writer channel.
func importFeed(ctx context.Context, path string, dedupe *deduper, out chan<- product.Product) func() error {
	return func() error {
		var total, skipped uint64

		err := streamGzFile(ctx, path, func(line []byte) error {
			p, err := decodeProductLine(line)
			if err != nil {
				return err
			}
			total++
			if total%progressEvery == 0 {
				slog.Info("feed progress", slog.String("feed", path), slog.Uint64("lines", total))
			}

			if dedupe.seen(p.ID) {
				skipped++
				return nil
			}

			select {
			case out <- p:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return errors.Wrapf(err, "import feed %s", path)
		}

		slog.Info("feed complete",
			slog.String("feed", path),
			slog.Uint64("lines", total),
			slog.Uint64("duplicates_skipped", skipped),
		)
		return nil
	}
}

// decodeProductLine parses one JSON feed line. Price accepts both a JSON
// number and a quoted decimal string; unknown keys are ignored.
func decodeProductLine(line []byte) (product.Product, error) {
	var p product.Product
	d := jx.DecodeBytes(line)

	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "name":
			v, err := d.Str()
			p.Name = v
			return err
		case "price":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			s := raw.String()
			if len(s) >= 2 && s[0] == '"' {
				s = s[1 : len(s)-1]
			}
			p.Price, err = decimal.NewFromString(s)
			return err
		case "stock":
			v, err := d.Int()
			p.Stock = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return product.Product{}, errors.Wrap(err, "decode product line")
	}

	if p.ID == "" || p.Name == "" {
		return product.Product{}, errors.New("feed line missing id or name")
	}
	if p.Price.IsNegative() || p.Stock < 0 {
		return product.Product{}, errors.Errorf("feed line for %s has negative price or stock", p.ID)
	}
	return p, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
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
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// deduper tracks product ids already forwarded. The bloom filter keeps the
// memory flat for very large feeds; a false positive only means a product is
// skipped once, which the next import pass corrects.
type deduper struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

func newDeduper() *deduper {
	return &deduper{filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR)}
}

func (d *deduper) seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.filter.TestString(id) {
		return true
	}
	d.filter.AddString(id)
	return false
}
