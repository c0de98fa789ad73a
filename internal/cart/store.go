package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/logger"
	"github.com/lumenmarket/storefront-backend/pkg/metrics"
	"github.com/lumenmarket/storefront-backend/pkg/money"
)

// VariantDetail is what the catalog reports for a purchasable variant at the
// moment an item is added to a cart.
type VariantDetail struct {
	Merchandise Merchandise
	UnitPrice   money.Amount
}

// Catalog resolves variant pricing and display data for Add actions.
type Catalog interface {
	VariantDetail(ctx context.Context, productID, variantID uuid.UUID) (VariantDetail, error)
}

// Remote is the authoritative cart collaborator for a signed-in owner.
type Remote interface {
	AddLine(ctx context.Context, m Merchandise, quantity int) error
	UpdateLine(ctx context.Context, lineID uuid.UUID, quantity int) error
	RemoveLine(ctx context.Context, lineID uuid.UUID) error
	Get(ctx context.Context) (Cart, error)
}

// GuestStorage is the key-value store holding serialized guest carts.
type GuestStorage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

// Notifier surfaces remote sync failures to the shopper as a transient notice.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// StoreParams groups the collaborators of a cart store.
type StoreParams struct {
	GuestKey string
	SignedIn bool
	Catalog  Catalog
	Remote   Remote
	Storage  GuestStorage
	Notifier Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CartMetrics
}

// Store owns one cart snapshot for a single storefront session. Mutations are
// serialized internally and applied through the reducer; in guest mode the
// snapshot is the source of truth and is persisted after every mutation, in
// authenticated mode it is an optimistic mirror of the remote cart.
type Store struct {
	mu      sync.Mutex
	pending sync.WaitGroup

	cart       Cart
	signedIn   bool
	reconciled bool

	guestKey string
	catalog  Catalog
	remote   Remote
	storage  GuestStorage
	notifier Notifier
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
}

// NewStore initializes a store for one session: guests load their persisted
// cart (falling back to empty on any storage or parse failure), signed-in
// sessions mirror the remote snapshot.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest storage is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.SignedIn && params.Remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "remote cart is required for signed-in sessions")
	}
	if params.GuestKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest key is required")
	}
	if params.Notifier == nil {
		params.Notifier = noopNotifier{}
	}

	s := &Store{
		signedIn:   params.SignedIn,
		reconciled: params.SignedIn,
		guestKey:   params.GuestKey,
		catalog:    params.Catalog,
		remote:     params.Remote,
		storage:    params.Storage,
		notifier:   params.Notifier,
		logg:       params.Logger,
		metrics:    params.Metrics,
	}

	if params.SignedIn {
		s.cart = s.loadRemote(ctx)
	} else {
		s.cart = s.loadGuest(ctx)
	}
	return s, nil
}

// Cart returns a copy of the current snapshot.
func (s *Store) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddItem resolves the variant through the catalog and applies an Add action.
func (s *Store) AddItem(ctx context.Context, productID, variantID uuid.UUID, quantity int) (Cart, error) {
	if quantity < 1 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	detail, err := s.catalog.VariantDetail(ctx, productID, variantID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return Cart{}, err
		}
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve variant")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Add(s.cart, detail.Merchandise, detail.UnitPrice, quantity)
	s.metrics.IncMutation("add")
	s.afterMutation(ctx, "add line", func(ctx context.Context) error {
		return s.remote.AddLine(ctx, detail.Merchandise, quantity)
	})
	return s.cart.Clone(), nil
}

// UpdateQuantity applies a +1/-1 delta to a line; reaching zero removes it.
func (s *Store) UpdateQuantity(ctx context.Context, lineID uuid.UUID, delta int) (Cart, error) {
	if delta != 1 && delta != -1 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "delta must be +1 or -1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.cart.LineByID(lineID)
	if !ok {
		return Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	newQuantity := line.Quantity + delta

	s.cart = UpdateQuantity(s.cart, lineID, delta)
	s.metrics.IncMutation("update")
	s.afterMutation(ctx, "update line", func(ctx context.Context) error {
		if newQuantity <= 0 {
			return s.remote.RemoveLine(ctx, lineID)
		}
		return s.remote.UpdateLine(ctx, lineID, newQuantity)
	})
	return s.cart.Clone(), nil
}

// RemoveLine deletes a line unconditionally.
func (s *Store) RemoveLine(ctx context.Context, lineID uuid.UUID) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cart.LineByID(lineID); !ok {
		return Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	s.cart = Remove(s.cart, lineID)
	s.metrics.IncMutation("remove")
	s.afterMutation(ctx, "remove line", func(ctx context.Context) error {
		return s.remote.RemoveLine(ctx, lineID)
	})
	return s.cart.Clone(), nil
}

// Resync replaces the local snapshot with the authoritative remote cart. This
// is the only path by which failed optimistic mutations get corrected.
func (s *Store) Resync(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.signedIn {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "resync requires a signed-in session")
	}

	remote, err := s.remote.Get(ctx)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch remote cart")
	}
	s.cart = Replace(s.cart, remote)
	return s.cart.Clone(), nil
}

// Wait blocks until in-flight remote syncs have completed. Used on shutdown
// and in tests; request handlers never wait on it.
func (s *Store) Wait() {
	s.pending.Wait()
}

// afterMutation routes the side effect of a just-applied action: guests
// persist the snapshot, signed-in sessions fire a best-effort remote call.
// Must be called with the mutex held.
func (s *Store) afterMutation(ctx context.Context, action string, remoteCall func(ctx context.Context) error) {
	if !s.signedIn {
		s.persistGuest(ctx)
		return
	}
	s.syncRemote(ctx, action, remoteCall)
}

// syncRemote runs the remote call without blocking the mutation. Failures are
// surfaced and counted but never rolled back locally; correction arrives with
// the next Resync. Calls are not sequenced relative to each other.
func (s *Store) syncRemote(ctx context.Context, action string, call func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := call(detached); err != nil {
			s.metrics.IncSyncFailure()
			s.notifier.Notify(detached, "could not update your cart, it will refresh shortly")
			lctx := s.logg.WithField(detached, "action", action)
			s.logg.Error(lctx, "cart.remote_sync_failed", err)
		}
	}()
}

func (s *Store) persistGuest(ctx context.Context) {
	payload, err := json.Marshal(s.cart)
	if err != nil {
		s.logg.Error(ctx, "cart.guest_marshal_failed", err)
		return
	}
	if err := s.storage.Set(ctx, s.guestKey, payload); err != nil {
		s.logg.Error(ctx, "cart.guest_persist_failed", err)
	}
}

// loadGuest reads the persisted guest cart. Absent, unreadable, or unparsable
// payloads all degrade to an empty cart; initialization never fails on them.
func (s *Store) loadGuest(ctx context.Context) Cart {
	payload, found, err := s.storage.Get(ctx, s.guestKey)
	if err != nil {
		s.logg.Error(ctx, "cart.guest_load_failed", err)
		return NewEmpty()
	}
	if !found {
		return NewEmpty()
	}
	var loaded Cart
	if err := json.Unmarshal(payload, &loaded); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "guest_key", s.guestKey), "cart.guest_payload_invalid, resetting")
		return NewEmpty()
	}
	if loaded.ID == uuid.Nil {
		return NewEmpty()
	}
	return loaded
}

func (s *Store) loadRemote(ctx context.Context) Cart {
	remote, err := s.remote.Get(ctx)
	if err != nil {
		s.logg.Error(ctx, "cart.remote_load_failed", err)
		return NewEmpty()
	}
	return remote
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) {}
