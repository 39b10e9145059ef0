package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"inventory-billing/internal/access"
	"inventory-billing/internal/events"
	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "inventory-billing/service"

// billingService implements BillingService.
type billingService struct {
	productRepo repository.ProductRepository
	billRepo    repository.BillRepository
	publisher   events.Publisher
	recorder    SaleRecorder
	tracer      trace.Tracer
	now         func() time.Time
	logger      zerolog.Logger
}

// NewBillingService creates a new billing service.
func NewBillingService(
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	publisher events.Publisher,
	recorder SaleRecorder,
	logger zerolog.Logger,
) BillingService {
	return &billingService{
		productRepo: productRepo,
		billRepo:    billRepo,
		publisher:   publisher,
		recorder:    recorder,
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
		logger:      logger.With().Str("service", "billing").Logger(),
	}
}

// SubmitSale validates every line against current stock, then applies all
// decrements and writes the bill in a single transaction. Either the whole
// sale is recorded or nothing changes.
func (s *billingService) SubmitSale(ctx context.Context, actor *access.Actor, lines []model.SaleLine) (bill *model.Bill, err error) {
	ctx, span := s.tracer.Start(ctx, "billing.submit_sale",
		trace.WithAttributes(attribute.Int("sale.lines", len(lines))))
	defer func() {
		if err != nil {
			kind := errorKind(err)
			span.SetAttributes(attribute.String("sale.outcome", kind))
			span.SetStatus(codes.Error, err.Error())
			s.recorder.RecordSaleRejection(kind)
		} else {
			span.SetAttributes(
				attribute.String("sale.outcome", "committed"),
				attribute.String("sale.total", bill.Total.StringFixed(2)),
				attribute.String("bill.id", bill.ID.String()),
			)
		}
		span.End()
	}()

	if err := access.Authorize(actor, access.OpBill); err != nil {
		s.logger.Warn().Err(err).Msg("sale denied")
		return nil, err
	}

	if err := validateSaleLines(lines); err != nil {
		return nil, err
	}

	items, requested, total, err := s.checkStock(ctx, lines)
	if err != nil {
		return nil, err
	}

	bill = &model.Bill{
		ID:        uuid.New(),
		Items:     items,
		Total:     total,
		CreatedAt: s.now().UTC(),
		CreatedBy: actor.Username,
	}

	if err := s.commit(ctx, bill, requested); err != nil {
		return nil, err
	}

	s.recorder.RecordSale(bill.Total)

	s.logger.Info().
		Str("bill_id", bill.ID.String()).
		Str("actor", actor.Username).
		Int("item_count", len(bill.Items)).
		Str("total", bill.Total.StringFixed(2)).
		Msg("sale recorded")

	if pubErr := s.publisher.PublishBillCreated(ctx, bill); pubErr != nil {
		s.logger.Warn().Err(pubErr).Str("bill_id", bill.ID.String()).Msg("failed to publish bill.created")
	}

	return bill, nil
}

// validateSaleLines rejects structurally invalid input before any lookup.
func validateSaleLines(lines []model.SaleLine) error {
	if len(lines) == 0 {
		return model.ErrEmptySale
	}

	for i, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return model.NewValidationError(fmt.Sprintf("item %d: product ID is required", i))
		}
		if line.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
		if line.Quantity > math.MaxInt32 {
			return model.NewValidationError(fmt.Sprintf("item %d: quantity must not exceed %d", i, math.MaxInt32))
		}
	}

	return nil
}

// checkStock is the read-only validation pass. Lines are checked in input
// order and the first failure is returned. Repeated lines for one product are
// checked against their running total.
func (s *billingService) checkStock(ctx context.Context, lines []model.SaleLine) ([]model.BillItem, map[string]int, decimal.Decimal, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("product_count", len(ids)).Msg("failed to load sale products")
		return nil, nil, decimal.Zero, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.BillItem, len(lines))
	requested := make(map[string]int, len(ids))
	total := decimal.Zero

	for i, line := range lines {
		p, ok := byID[line.ProductID]
		if !ok {
			s.logger.Debug().Str("product_id", line.ProductID).Msg("sale references unknown product")
			return nil, nil, decimal.Zero, model.NewProductNotFoundError(line.ProductID)
		}

		// Compare against what is left so the running total never overflows.
		if line.Quantity > p.Stock-requested[p.ID] {
			want := requested[p.ID] + line.Quantity
			s.logger.Debug().
				Str("product_id", p.ID).
				Int("available", p.Stock).
				Int("requested", want).
				Msg("insufficient stock for sale")
			return nil, nil, decimal.Zero, model.NewInsufficientStockError(p.ID, p.Name, p.Stock, want)
		}
		requested[p.ID] += line.Quantity

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items[i] = model.BillItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			LineTotal:   lineTotal,
		}
		total = total.Add(lineTotal)
	}

	return items, requested, total, nil
}

// commit applies the decrements and writes the bill in one transaction.
// Products are locked in ascending ID order so concurrent multi-line sales
// cannot deadlock each other.
func (s *billingService) commit(ctx context.Context, bill *model.Bill, requested map[string]int) (err error) {
	tx, err := s.billRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to submit sale: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	ids := make([]string, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err = s.productRepo.DecrementStock(ctx, tx, id, requested[id]); err != nil {
			var domainErr *model.DomainError
			if errors.As(err, &domainErr) {
				s.logger.Info().
					Err(err).
					Str("product_id", id).
					Msg("stock changed between validation and commit, sale rolled back")
				return err
			}
			s.logger.Error().Err(err).Str("product_id", id).Msg("failed to decrement stock")
			return fmt.Errorf("failed to submit sale: %w", err)
		}
	}

	if err = s.billRepo.Insert(ctx, tx, bill); err != nil {
		s.logger.Error().Err(err).Str("bill_id", bill.ID.String()).Msg("failed to insert bill")
		return fmt.Errorf("failed to submit sale: %w", err)
	}

	if err = s.billRepo.InsertItems(ctx, tx, bill.ID, bill.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("bill_id", bill.ID.String()).
			Int("item_count", len(bill.Items)).
			Msg("failed to insert bill items")
		return fmt.Errorf("failed to submit sale: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("bill_id", bill.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to submit sale: %w", err)
	}

	return nil
}

// GetBill retrieves a recorded bill.
func (s *billingService) GetBill(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Bill, error) {
	if err := access.Authorize(actor, access.OpBill); err != nil {
		return nil, err
	}

	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("bill_id", id.String()).Msg("failed to get bill")
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if bill == nil {
		return nil, model.ErrBillNotFound
	}

	return bill, nil
}

// errorKind labels err with its domain code, or INTERNAL_ERROR.
func errorKind(err error) string {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return model.ErrCodeInternalError
}
