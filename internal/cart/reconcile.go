package cart

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
)

// SetSignedIn switches the store between guest and authenticated mode. The
// false→true transition merges the persisted guest cart into the remote cart,
// guarded so it runs at most once per store.
func (s *Store) SetSignedIn(ctx context.Context, signedIn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if signedIn == s.signedIn {
		return nil
	}

	if !signedIn {
		s.signedIn = false
		s.cart = s.loadGuest(ctx)
		return nil
	}

	if s.remote == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "remote cart is required for signed-in sessions")
	}
	s.signedIn = true
	if !s.reconciled {
		s.reconciled = true
		s.reconcileGuest(ctx)
	}
	return nil
}

// reconcileGuest replays the persisted guest lines against the remote cart as
// add operations (quantity and identity only, the server reprices), clears the
// guest storage entry, and adopts the remote snapshot. Individual replay
// failures are logged and do not abort the remaining lines or the cleanup;
// the dropped lines are accepted as lost. Must be called with the mutex held.
func (s *Store) reconcileGuest(ctx context.Context) {
	guest := s.readPersistedGuest(ctx)

	for _, line := range guest.Lines {
		if err := s.remote.AddLine(ctx, line.Merchandise, line.Quantity); err != nil {
			s.metrics.IncSyncFailure()
			lctx := s.logg.WithField(ctx, "variant_id", line.Merchandise.VariantID.String())
			s.logg.Error(lctx, "cart.reconcile_line_failed", err)
		}
	}

	if err := s.storage.Delete(ctx, s.guestKey); err != nil {
		s.logg.Error(ctx, "cart.guest_cleanup_failed", err)
	}

	s.metrics.IncReconciliation()

	remote, err := s.remote.Get(ctx)
	if err != nil {
		s.logg.Error(ctx, "cart.reconcile_resync_failed", err)
		s.cart = NewEmpty()
		return
	}
	s.cart = Replace(s.cart, remote)
}

// readPersistedGuest loads the stored guest cart for replay, tolerating every
// failure mode with an empty cart.
func (s *Store) readPersistedGuest(ctx context.Context) Cart {
	payload, found, err := s.storage.Get(ctx, s.guestKey)
	if err != nil || !found {
		if err != nil {
			s.logg.Error(ctx, "cart.guest_load_failed", err)
		}
		return NewEmpty()
	}
	var guest Cart
	if err := json.Unmarshal(payload, &guest); err != nil {
		s.logg.Warn(ctx, "cart.guest_payload_invalid, skipping replay")
		return NewEmpty()
	}
	return guest
}
