package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumenmarket/storefront-backend/pkg/db/models"
	"github.com/lumenmarket/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/types"
)

type fakeReader struct {
	products map[uuid.UUID]*models.Product
	err      error
}

func (f *fakeReader) FindProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (f *fakeReader) FindVariant(_ context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	product, ok := f.products[productID]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i], product, nil
		}
	}
	return nil, nil, gorm.ErrRecordNotFound
}

func (f *fakeReader) ListActiveProducts(context.Context, int, int) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func seedProduct(active bool) (*models.Product, uuid.UUID) {
	variantID := uuid.New()
	product := &models.Product{
		ID:           uuid.New(),
		Title:        "Trail Runner",
		Handle:       "trail-runner",
		CurrencyCode: enums.CurrencyINR,
		IsActive:     active,
		Variants: []models.ProductVariant{{
			ID:              variantID,
			SKU:             "TR-42",
			SelectedOptions: types.SelectedOptions{{Name: "size", Value: "42"}},
			Price:           decimal.RequireFromString("499.00"),
			AvailableQty:    10,
		}},
	}
	product.Variants[0].ProductID = product.ID
	return product, variantID
}

func TestVariantDetail(t *testing.T) {
	ctx := context.Background()
	product, variantID := seedProduct(true)
	svc, err := NewService(&fakeReader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	require.NoError(t, err)

	detail, err := svc.VariantDetail(ctx, product.ID, variantID)
	require.NoError(t, err)

	assert.Equal(t, product.ID, detail.Merchandise.ProductID)
	assert.Equal(t, variantID, detail.Merchandise.VariantID)
	assert.Equal(t, "Trail Runner", detail.Merchandise.Title)
	assert.Equal(t, product.Variants[0].SelectedOptions, detail.Merchandise.SelectedOptions)
	assert.Equal(t, enums.CurrencyINR, detail.UnitPrice.CurrencyCode)
	assert.True(t, detail.UnitPrice.Value.Equal(decimal.RequireFromString("499.00")))
}

func TestVariantDetailNotFound(t *testing.T) {
	ctx := context.Background()
	product, _ := seedProduct(true)
	svc, err := NewService(&fakeReader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	require.NoError(t, err)

	_, err = svc.VariantDetail(ctx, product.ID, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestVariantDetailInactiveProduct(t *testing.T) {
	ctx := context.Background()
	product, variantID := seedProduct(false)
	svc, err := NewService(&fakeReader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	require.NoError(t, err)

	_, err = svc.VariantDetail(ctx, product.ID, variantID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestVariantDetailValidatesIDs(t *testing.T) {
	svc, err := NewService(&fakeReader{})
	require.NoError(t, err)

	_, err = svc.VariantDetail(context.Background(), uuid.Nil, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestVariantDetailDependencyFailure(t *testing.T) {
	svc, err := NewService(&fakeReader{err: errors.New("connection refused")})
	require.NoError(t, err)

	_, err = svc.VariantDetail(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	product, variantID := seedProduct(true)
	svc, err := NewService(&fakeReader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	require.NoError(t, err)

	dto, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, dto.ID)
	assert.Equal(t, "trail-runner", dto.Handle)
	require.Len(t, dto.Variants, 1)
	assert.Equal(t, variantID, dto.Variants[0].ID)

	_, err = svc.GetProduct(ctx, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListProducts(t *testing.T) {
	active, _ := seedProduct(true)
	svc, err := NewService(&fakeReader{products: map[uuid.UUID]*models.Product{active.ID: active}})
	require.NoError(t, err)

	dtos, err := svc.ListProducts(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, active.ID, dtos[0].ID)
}

func TestNewServiceRequiresReader(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
