package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory-billing/internal/access"
	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll lists every product ordered by name.
func (s *productService) GetAll(ctx context.Context, actor *access.Actor) ([]model.Product, error) {
	if err := access.Authorize(actor, access.OpReadProducts); err != nil {
		return nil, err
	}

	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, actor *access.Actor, id string) (*model.Product, error) {
	if err := access.Authorize(actor, access.OpReadProducts); err != nil {
		return nil, err
	}

	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.NewProductNotFoundError(id)
	}

	return product, nil
}

// Create adds a product to the catalogue. A missing ID is generated.
func (s *productService) Create(ctx context.Context, actor *access.Actor, req *model.CreateProductRequest) (*model.Product, error) {
	if err := access.Authorize(actor, access.OpMutateProducts); err != nil {
		s.logger.Warn().Err(err).Msg("product creation denied")
		return nil, err
	}

	product, err := NewProduct(req)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, model.ErrProductExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("actor", actor.Username).
		Msg("product created")

	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if err := access.Authorize(actor, access.OpMutateProducts); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id).Msg("product deletion denied")
		return err
	}

	if id == "" {
		return model.ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().
		Str("product_id", id).
		Str("actor", actor.Username).
		Msg("product deleted")

	return nil
}

// Restock adds qty units to a product's stock.
func (s *productService) Restock(ctx context.Context, actor *access.Actor, id string, qty int) (*model.Product, error) {
	if err := access.Authorize(actor, access.OpMutateProducts); err != nil {
		return nil, err
	}

	if qty <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.Restock(ctx, id, qty)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to restock product")
		return nil, fmt.Errorf("failed to restock product: %w", err)
	}

	s.logger.Info().
		Str("product_id", id).
		Int("added", qty).
		Int("stock", product.Stock).
		Msg("product restocked")

	return product, nil
}

// pricePlaces and maxPrice match the products.price NUMERIC(12,2) column.
const pricePlaces = 2

var maxPrice = decimal.New(1, 10)

// NewProduct validates req and builds the product it describes.
func NewProduct(req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.ErrValidation
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.NewValidationError("product name is required")
	}

	if req.Price.IsNegative() {
		return nil, model.NewValidationError("price must not be negative")
	}
	if !req.Price.Equal(req.Price.Round(pricePlaces)) {
		return nil, model.NewValidationError(fmt.Sprintf("price must have at most %d decimal places", pricePlaces))
	}
	if req.Price.GreaterThanOrEqual(maxPrice) {
		return nil, model.NewValidationError(fmt.Sprintf("price must be less than %s", maxPrice))
	}

	if req.Stock < 0 {
		return nil, model.NewValidationError("stock must not be negative")
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	return &model.Product{
		ID:       id,
		Name:     name,
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Stock:    req.Stock,
		Unit:     strings.TrimSpace(req.Unit),
	}, nil
}
