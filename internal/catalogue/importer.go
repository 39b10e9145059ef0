package catalogue

import (
	"context"
	"errors"
	"fmt"

	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result summarises an import run.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Importer seeds the product store from catalogue files.
type Importer struct {
	loader      Loader
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewImporter creates a new catalogue importer.
func NewImporter(loader Loader, productRepo repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:      loader,
		productRepo: productRepo,
		logger:      logger.With().Str("component", "catalogue-importer").Logger(),
	}
}

// Import loads every file concurrently, then creates the products in file
// order. Products whose id already exists are skipped, so re-running an
// import is a no-op. Any load failure aborts before a single product is written.
func (i *Importer) Import(ctx context.Context, paths ...string) (Result, error) {
	var result Result

	i.logger.Info().Strs("files", paths).Msg("importing catalogue")

	loaded := make([][]model.Product, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for idx, path := range paths {
		g.Go(func() error {
			products, err := i.loader.Load(gctx, path)
			if err != nil {
				return err
			}
			loaded[idx] = products
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		i.logger.Error().Err(err).Msg("failed to load catalogue")
		return result, fmt.Errorf("failed to load catalogue: %w", err)
	}

	for _, products := range loaded {
		for idx := range products {
			err := i.productRepo.Create(ctx, &products[idx])
			switch {
			case err == nil:
				result.Created++
			case errors.Is(err, model.ErrProductExists):
				result.Skipped++
			default:
				i.logger.Error().Err(err).Str("product_id", products[idx].ID).Msg("failed to import product")
				return result, fmt.Errorf("failed to import product %s: %w", products[idx].ID, err)
			}
		}
	}

	i.logger.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("catalogue imported")

	return result, nil
}
