package usecase

import (
	"context"

	domain "github.com/aq2208/gorder-cart/internal/entity"
)

// CartStore persists one ledger snapshot per session.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (domain.Snapshot, bool, error)
	Save(ctx context.Context, sessionID string, snap domain.Snapshot) error
	Delete(ctx context.Context, sessionID string) error
}

type CatalogSource interface {
	Fetch(ctx context.Context) (*domain.Catalog, error)
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// HandoffPublisher announces a handed-off order to downstream listeners.
// It is advisory; the order itself is completed by a human over WhatsApp.
type HandoffPublisher interface {
	PublishHandoff(ctx context.Context, msg HandoffMsg) error
}

// Recorder receives business metrics.
type Recorder interface {
	CartMutation(outcome string)
	PersistFailure()
	Handoff(orderType domain.OrderType)
	StoreOpen(open bool)
	CatalogLoaded(items int)
}

type nopRecorder struct{}

func (nopRecorder) CartMutation(string)      {}
func (nopRecorder) PersistFailure()          {}
func (nopRecorder) Handoff(domain.OrderType) {}
func (nopRecorder) StoreOpen(bool)           {}
func (nopRecorder) CatalogLoaded(int)        {}
