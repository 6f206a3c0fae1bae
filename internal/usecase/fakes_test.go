package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/stretchr/testify/require"
)

// noon on a weekday, inside the lunch window.
var lunchTime = time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

type staticCatalogs struct{ c *domain.Catalog }

func (s staticCatalogs) Current() *domain.Catalog { return s.c }

// swappableCatalogs stands in for a reload between calls.
type swappableCatalogs struct{ c *domain.Catalog }

func (s *swappableCatalogs) Current() *domain.Catalog { return s.c }

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Categories: []domain.Category{{
			Title: "Mains",
			Items: []domain.CatalogItem{
				{ID: "201", Name: "Dal Makhani", Price: 220},
				{ID: "202", Name: "Butter Chicken", Price: 320},
			},
		}},
		TodayOffer: domain.OfferDefinition{Enabled: true, Items: []domain.OfferItem{
			{ID: "900", Name: "Gulab Jamun", OriginalPrice: 90, OfferPrice: 49},
			{ID: "901", Name: "Masala Chaas", OriginalPrice: 60, OfferPrice: 29},
		}},
		Discounts: domain.Discounts{DeliverySlabs: []domain.DiscountSlab{{MinSubtotal: 500, Percent: domain.PercentOf(10)}}},
		Tax:       domain.TaxConfig{GSTPercent: domain.PercentOf(5)},
		Contact:   domain.Contact{WhatsApp: "+91 93265-10688"},
	}
}

type memCartStore struct {
	mu      sync.Mutex
	snaps   map[string]domain.Snapshot
	saves   int
	deletes int
	failErr error
}

func newMemCartStore() *memCartStore {
	return &memCartStore{snaps: map[string]domain.Snapshot{}}
}

func (m *memCartStore) Load(_ context.Context, sid string) (domain.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, false, m.failErr
	}
	s, ok := m.snaps[sid]
	return s, ok, nil
}

func (m *memCartStore) Save(_ context.Context, sid string, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failErr != nil {
		return m.failErr
	}
	m.snaps[sid] = snap
	return nil
}

func (m *memCartStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.failErr != nil {
		return m.failErr
	}
	delete(m.snaps, sid)
	return nil
}

type countingRecorder struct {
	mu        sync.Mutex
	mutations map[string]int
	failures  int
	handoffs  map[domain.OrderType]int
	open      []bool
	items     int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{mutations: map[string]int{}, handoffs: map[domain.OrderType]int{}}
}

func (r *countingRecorder) CartMutation(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations[outcome]++
}

func (r *countingRecorder) PersistFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *countingRecorder) Handoff(ot domain.OrderType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handoffs[ot]++
}

func (r *countingRecorder) StoreOpen(open bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = append(r.open, open)
}

func (r *countingRecorder) CatalogLoaded(items int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
}

type memIdem struct {
	mu     sync.Mutex
	locks  map[string]bool
	values map[string]string
}

func newMemIdem() *memIdem {
	return &memIdem{locks: map[string]bool{}, values: map[string]string{}}
}

func (m *memIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scope + "|" + key
	if m.locks[k] {
		return false, nil
	}
	m.locks[k] = true
	return true, nil
}

func (m *memIdem) Release(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, scope+"|"+key)
	return nil
}

func (m *memIdem) Remember(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[scope+"|"+key] = value
	return nil
}

func (m *memIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[scope+"|"+key]
	return v, ok, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []HandoffMsg
	err  error
}

func (p *recordingPublisher) PublishHandoff(_ context.Context, msg HandoffMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

var errStoreDown = errors.New("store down")

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestCartService(t *testing.T, store CartStore, rec Recorder, now time.Time) *CartService {
	t.Helper()
	hours, err := domain.NewStoreHours(time.UTC, domain.DefaultWindows...)
	require.NoError(t, err)
	svc, err := NewCartService(staticCatalogs{testCatalog()}, store, rec, CartServiceConfig{
		Hours: hours,
		Now:   fixedClock(now),
	})
	require.NoError(t, err)
	return svc
}
