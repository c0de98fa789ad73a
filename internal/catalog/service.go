package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenmarket/storefront-backend/internal/cart"
	"github.com/lumenmarket/storefront-backend/pkg/db/models"
	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/money"
)

// Reader is the query surface consumed by the service.
type Reader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error)
	ListActiveProducts(ctx context.Context, limit, offset int) ([]models.Product, error)
}

// Service exposes catalog lookups for the storefront and the cart engine.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	ListProducts(ctx context.Context, limit, offset int) ([]ProductDTO, error)
	VariantDetail(ctx context.Context, productID, variantID uuid.UUID) (cart.VariantDetail, error)
}

type service struct {
	repo Reader
}

// NewService builds a catalog service over the provided reader.
func NewService(repo Reader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns one product for display.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	if id == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toProductDTO(product), nil
}

// ListProducts returns the active product listing.
func (s *service) ListProducts(ctx context.Context, limit, offset int) ([]ProductDTO, error) {
	products, err := s.repo.ListActiveProducts(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, toProductDTO(&products[i]))
	}
	return out, nil
}

// VariantDetail resolves the price, title, and option set the cart engine
// snapshots when a variant is added. The price is the one current at call
// time; lines are not repriced afterwards on the client side.
func (s *service) VariantDetail(ctx context.Context, productID, variantID uuid.UUID) (cart.VariantDetail, error) {
	if productID == uuid.Nil || variantID == uuid.Nil {
		return cart.VariantDetail{}, pkgerrors.New(pkgerrors.CodeValidation, "product and variant ids are required")
	}
	variant, product, err := s.repo.FindVariant(ctx, productID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.VariantDetail{}, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return cart.VariantDetail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if !product.IsActive {
		return cart.VariantDetail{}, pkgerrors.New(pkgerrors.CodeNotFound, "product is not available")
	}

	return cart.VariantDetail{
		Merchandise: cart.Merchandise{
			ProductID:       product.ID,
			VariantID:       variant.ID,
			Title:           product.Title,
			SelectedOptions: variant.SelectedOptions,
		},
		UnitPrice: money.New(variant.Price, product.CurrencyCode),
	}, nil
}
