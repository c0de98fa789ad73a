package cart

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/logger"
	"github.com/lumenmarket/storefront-backend/pkg/metrics"
)

// RemoteFactory binds the authoritative cart service to a specific owner.
type RemoteFactory func(ownerID uuid.UUID) Remote

// Session identifies the shopper behind one request: an optional signed-in
// user plus the guest session key the device carries.
type Session struct {
	UserID   *uuid.UUID
	GuestKey string
}

// SignedIn reports whether the session belongs to an authenticated user.
func (s Session) SignedIn() bool {
	return s.UserID != nil && *s.UserID != uuid.Nil
}

// ProviderParams groups the shared collaborators for per-session stores.
type ProviderParams struct {
	Catalog       Catalog
	Storage       GuestStorage
	RemoteFactory RemoteFactory
	Notifier      Notifier
	Logger        *logger.Logger
	Metrics       *metrics.CartMetrics
}

// Provider constructs cart stores on demand, one per session. Stores are not
// shared across sessions; two devices on the same guest key overwrite each
// other last-write-wins, mirroring the storage contract.
type Provider struct {
	catalog       Catalog
	storage       GuestStorage
	remoteFactory RemoteFactory
	notifier      Notifier
	logg          *logger.Logger
	metrics       *metrics.CartMetrics
}

// NewProvider validates and wires the shared collaborators.
func NewProvider(params ProviderParams) (*Provider, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest storage is required")
	}
	if params.RemoteFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "remote factory is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Provider{
		catalog:       params.Catalog,
		storage:       params.Storage,
		remoteFactory: params.RemoteFactory,
		notifier:      params.Notifier,
		logg:          params.Logger,
		metrics:       params.Metrics,
	}, nil
}

// Store initializes the cart store for the given session.
func (p *Provider) Store(ctx context.Context, session Session) (*Store, error) {
	params := StoreParams{
		GuestKey: session.GuestKey,
		SignedIn: session.SignedIn(),
		Catalog:  p.catalog,
		Storage:  p.storage,
		Notifier: p.notifier,
		Logger:   p.logg,
		Metrics:  p.metrics,
	}
	if session.SignedIn() {
		params.Remote = p.remoteFactory(*session.UserID)
	}
	return NewStore(ctx, params)
}

// Reconcile runs the one-time guest→authenticated merge for a sign-in
// transition and returns the resulting snapshot.
func (p *Provider) Reconcile(ctx context.Context, userID uuid.UUID, guestKey string) (Cart, error) {
	if userID == uuid.Nil {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	store, err := NewStore(ctx, StoreParams{
		GuestKey: guestKey,
		SignedIn: false,
		Catalog:  p.catalog,
		Remote:   p.remoteFactory(userID),
		Storage:  p.storage,
		Notifier: p.notifier,
		Logger:   p.logg,
		Metrics:  p.metrics,
	})
	if err != nil {
		return Cart{}, err
	}
	if err := store.SetSignedIn(ctx, true); err != nil {
		return Cart{}, err
	}
	return store.Cart(), nil
}
