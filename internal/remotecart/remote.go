package remotecart

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumenmarket/storefront-backend/internal/cart"
)

// OwnerRemote binds the cart service to one owner, satisfying the remote
// collaborator a session store syncs against.
type OwnerRemote struct {
	svc     Service
	ownerID uuid.UUID
}

// NewOwnerRemote builds the owner-bound adapter.
func NewOwnerRemote(svc Service, ownerID uuid.UUID) *OwnerRemote {
	return &OwnerRemote{svc: svc, ownerID: ownerID}
}

func (r *OwnerRemote) AddLine(ctx context.Context, m cart.Merchandise, quantity int) error {
	return r.svc.AddLine(ctx, r.ownerID, m, quantity)
}

func (r *OwnerRemote) UpdateLine(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.svc.UpdateLine(ctx, r.ownerID, lineID, quantity)
}

func (r *OwnerRemote) RemoveLine(ctx context.Context, lineID uuid.UUID) error {
	return r.svc.RemoveLine(ctx, r.ownerID, lineID)
}

func (r *OwnerRemote) Get(ctx context.Context) (cart.Cart, error) {
	return r.svc.GetActive(ctx, r.ownerID)
}
