package remotecart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lumenmarket/storefront-backend/internal/cart"
	"github.com/lumenmarket/storefront-backend/pkg/db/models"
	"github.com/lumenmarket/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/logger"
	"github.com/lumenmarket/storefront-backend/pkg/money"
)

// Store is the persistence surface consumed by the service.
type Store interface {
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) error
	SaveLine(ctx context.Context, line *models.CartLineRow) error
	DeleteLine(ctx context.Context, cartID, lineID uuid.UUID) error
	SaveAggregates(ctx context.Context, record *models.CartRecord) error
}

// Service is the authoritative cart for signed-in owners. Unlike the
// per-session snapshot it reprices lines through the catalog on every add,
// so a stale storefront price never reaches the stored cart.
type Service interface {
	AddLine(ctx context.Context, ownerID uuid.UUID, m cart.Merchandise, quantity int) error
	UpdateLine(ctx context.Context, ownerID, lineID uuid.UUID, quantity int) error
	RemoveLine(ctx context.Context, ownerID, lineID uuid.UUID) error
	GetActive(ctx context.Context, ownerID uuid.UUID) (cart.Cart, error)
}

type service struct {
	repo    Store
	catalog cart.Catalog
	logg    *logger.Logger
}

// ServiceParams groups the collaborators of the cart service.
type ServiceParams struct {
	Repo    Store
	Catalog cart.Catalog
	Logger  *logger.Logger
}

// NewService builds the authoritative cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, catalog: params.Catalog, logg: params.Logger}, nil
}

// AddLine merges the merchandise into the owner's active cart, creating the
// cart on first use. Quantity increments when a line with the same variant
// and option set already exists.
func (s *service) AddLine(ctx context.Context, ownerID uuid.UUID, m cart.Merchandise, quantity int) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	detail, err := s.catalog.VariantDetail(ctx, m.ProductID, m.VariantID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reprice variant")
	}

	record, err := s.loadOrCreate(ctx, ownerID, detail.UnitPrice.CurrencyCode)
	if err != nil {
		return err
	}

	key := detail.Merchandise.IdentityKey()
	var line *models.CartLineRow
	for i := range record.Lines {
		if rowIdentityKey(&record.Lines[i]) == key {
			line = &record.Lines[i]
			break
		}
	}

	if line == nil {
		record.Lines = append(record.Lines, models.CartLineRow{
			ID:              uuid.New(),
			CartID:          record.ID,
			ProductID:       detail.Merchandise.ProductID,
			VariantID:       detail.Merchandise.VariantID,
			Title:           detail.Merchandise.Title,
			SelectedOptions: detail.Merchandise.SelectedOptions,
		})
		line = &record.Lines[len(record.Lines)-1]
	}

	line.Quantity += quantity
	line.UnitPrice = detail.UnitPrice.Value
	line.LineTotal = detail.UnitPrice.Value.Mul(decimal.NewFromInt(int64(line.Quantity)))

	if err := s.repo.SaveLine(ctx, line); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}
	return s.saveAggregates(ctx, record)
}

// UpdateLine sets the absolute quantity of a line. Zero or below removes it.
func (s *service) UpdateLine(ctx context.Context, ownerID, lineID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveLine(ctx, ownerID, lineID)
	}

	record, err := s.findActive(ctx, ownerID)
	if err != nil {
		return err
	}

	var line *models.CartLineRow
	for i := range record.Lines {
		if record.Lines[i].ID == lineID {
			line = &record.Lines[i]
			break
		}
	}
	if line == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	line.Quantity = quantity
	line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	if err := s.repo.SaveLine(ctx, line); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}
	return s.saveAggregates(ctx, record)
}

// RemoveLine deletes a line unconditionally.
func (s *service) RemoveLine(ctx context.Context, ownerID, lineID uuid.UUID) error {
	record, err := s.findActive(ctx, ownerID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range record.Lines {
		if record.Lines[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.repo.DeleteLine(ctx, record.ID, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	record.Lines = append(record.Lines[:idx], record.Lines[idx+1:]...)
	return s.saveAggregates(ctx, record)
}

// GetActive returns the owner's active cart as a snapshot. Owners without a
// stored cart get an empty one without creating a row.
func (s *service) GetActive(ctx context.Context, ownerID uuid.UUID) (cart.Cart, error) {
	if ownerID == uuid.Nil {
		return cart.Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	record, err := s.repo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.NewEmpty(), nil
		}
		return cart.Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return toSnapshot(record), nil
}

func (s *service) findActive(ctx context.Context, ownerID uuid.UUID) (*models.CartRecord, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	record, err := s.repo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}

func (s *service) loadOrCreate(ctx context.Context, ownerID uuid.UUID, currency enums.Currency) (*models.CartRecord, error) {
	record, err := s.repo.FindActiveByOwner(ctx, ownerID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	record = &models.CartRecord{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Status:       enums.CartStatusActive,
		CurrencyCode: currency,
		Subtotal:     decimal.Zero,
		Total:        decimal.Zero,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	s.logg.Info(s.logg.WithCartID(ctx, record.ID.String()), "cart.created")
	return record, nil
}

// saveAggregates recomputes quantity and cost columns from the lines and
// persists them. Tax and shipping stay zero until checkout owns them.
func (s *service) saveAggregates(ctx context.Context, record *models.CartRecord) error {
	totalQuantity := 0
	subtotal := decimal.Zero
	for i := range record.Lines {
		totalQuantity += record.Lines[i].Quantity
		subtotal = subtotal.Add(record.Lines[i].LineTotal)
	}
	record.TotalQuantity = totalQuantity
	record.Subtotal = subtotal
	record.Total = subtotal

	if err := s.repo.SaveAggregates(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart aggregates")
	}
	return nil
}

func rowIdentityKey(row *models.CartLineRow) string {
	m := cart.Merchandise{VariantID: row.VariantID, SelectedOptions: row.SelectedOptions}
	return m.IdentityKey()
}

// toSnapshot converts a stored cart into the session snapshot shape.
func toSnapshot(record *models.CartRecord) cart.Cart {
	currency := record.CurrencyCode
	if currency == "" {
		currency = enums.DefaultCurrency
	}
	zero := money.Zero(currency)

	lines := make([]cart.Line, 0, len(record.Lines))
	for _, row := range record.Lines {
		lines = append(lines, cart.Line{
			ID: row.ID,
			Merchandise: cart.Merchandise{
				ProductID:       row.ProductID,
				VariantID:       row.VariantID,
				Title:           row.Title,
				SelectedOptions: row.SelectedOptions,
			},
			Quantity: row.Quantity,
			Total:    money.New(row.LineTotal, currency),
		})
	}

	return cart.Cart{
		ID:            record.ID,
		Lines:         lines,
		TotalQuantity: record.TotalQuantity,
		Cost: cart.Cost{
			Subtotal: money.New(record.Subtotal, currency),
			Total:    money.New(record.Total, currency),
			Tax:      zero,
			Shipping: zero,
		},
		UpdatedAt: record.UpdatedAt,
	}
}
