package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/logging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CatalogProvider hands out the live catalog; nil means not loaded yet.
type CatalogProvider interface {
	Current() *domain.Catalog
}

// Session is the per-client cart context. All core operations run against it
// while its lock is held.
type Session struct {
	ID string

	mu        sync.Mutex
	ledger    *domain.Ledger
	orderType domain.OrderType
	pending   []domain.Notice
}

type ItemRef struct {
	ID    domain.ItemID
	Offer bool
}

// CartView is what the storefront renders after every action.
type CartView struct {
	SessionID string             `json:"sessionId"`
	OrderType domain.OrderType   `json:"orderType"`
	Lines     []domain.CartLine  `json:"lines"`
	Count     int                `json:"count"`
	Bill      domain.Bill        `json:"bill"`
	Notices   []domain.Notice    `json:"notices,omitempty"`
	Store     domain.StoreStatus `json:"store"`
}

type CartServiceConfig struct {
	Hours        domain.StoreHours
	DeliveryRule domain.DeliveryRule
	SessionCache int
	StoreTimeout time.Duration
	Now          func() time.Time
}

type CartService struct {
	catalogs CatalogProvider
	store    CartStore
	rec      Recorder
	cfg      CartServiceConfig
	sessions *lru.Cache[string, *Session]
	log      *slog.Logger
}

func NewCartService(catalogs CatalogProvider, store CartStore, rec Recorder, cfg CartServiceConfig) (*CartService, error) {
	if rec == nil {
		rec = nopRecorder{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Hours.IsZero() {
		cfg.Hours, _ = domain.NewStoreHours(time.Local)
	}
	if cfg.SessionCache <= 0 {
		cfg.SessionCache = 10_000
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 2 * time.Second
	}
	if cfg.DeliveryRule == (domain.DeliveryRule{}) {
		cfg.DeliveryRule = domain.DefaultDeliveryRule
	}
	cache, err := lru.New[string, *Session](cfg.SessionCache)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &CartService{
		catalogs: catalogs,
		store:    store,
		rec:      rec,
		cfg:      cfg,
		sessions: cache,
		log:      logging.New("cart"),
	}, nil
}

func (s *CartService) StoreStatus() domain.StoreStatus {
	return s.cfg.Hours.Status(s.cfg.Now())
}

func (s *CartService) View(ctx context.Context, sessionID string) (CartView, error) {
	var view CartView
	err := s.withSession(ctx, sessionID, func(sess *Session) error {
		view = s.view(sess, nil)
		return nil
	})
	return view, err
}

// SetQuantity is the only path that changes line quantities: store-hours
// gate, item resolution, offer policy, ledger, persist.
func (s *CartService) SetQuantity(ctx context.Context, sessionID string, ref ItemRef, delta int) (CartView, error) {
	status := s.StoreStatus()
	if !status.IsOpen {
		s.rec.CartMutation("store_closed")
		return CartView{}, &domain.StoreClosedError{NextOpenMessage: status.NextOpenMessage}
	}

	var view CartView
	err := s.withSession(ctx, sessionID, func(sess *Session) error {
		item, err := s.resolve(sess, ref, delta)
		if err != nil {
			s.rec.CartMutation("unknown_item")
			return err
		}
		out, err := domain.ApplyQuantity(sess.ledger, item, delta)
		if err != nil {
			s.rec.CartMutation(outcomeOf(err))
			return err
		}
		s.rec.CartMutation("ok")
		if out.Changed {
			s.persist(ctx, sess)
		}
		view = s.view(sess, out.Notices)
		return nil
	})
	return view, err
}

// resolve uses the line already in the cart for decrements, so an item that
// left the catalog can still be removed. Additions need the live catalog.
// Must be called with sess.mu held.
func (s *CartService) resolve(sess *Session, ref ItemRef, delta int) (domain.LineItem, error) {
	if delta <= 0 {
		if line, ok := sess.ledger.Line(domain.KeyFor(ref.ID, ref.Offer)); ok {
			return line.LineItem, nil
		}
	}
	return s.catalogs.Current().Lookup(ref.ID, ref.Offer)
}

func (s *CartService) SetOrderType(ctx context.Context, sessionID string, ot domain.OrderType) (CartView, error) {
	ot, err := domain.ParseOrderType(string(ot))
	if err != nil {
		return CartView{}, err
	}
	var view CartView
	err = s.withSession(ctx, sessionID, func(sess *Session) error {
		sess.orderType = ot
		view = s.view(sess, nil)
		return nil
	})
	return view, err
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (CartView, error) {
	var view CartView
	err := s.withSession(ctx, sessionID, func(sess *Session) error {
		sess.ledger.Clear()
		s.persist(ctx, sess)
		view = s.view(sess, nil)
		return nil
	})
	return view, err
}

func (s *CartService) pricing() domain.Pricing {
	return s.catalogs.Current().Pricing(s.cfg.DeliveryRule)
}

// view must be called with sess.mu held.
func (s *CartService) view(sess *Session, notices []domain.Notice) CartView {
	if len(sess.pending) > 0 {
		notices = append(sess.pending, notices...)
		sess.pending = nil
	}
	return CartView{
		SessionID: sess.ID,
		OrderType: sess.orderType,
		Lines:     sess.ledger.Lines(),
		Count:     sess.ledger.Count(),
		Bill:      domain.ComputeBill(sess.ledger, sess.orderType, s.pricing()),
		Notices:   notices,
		Store:     s.StoreStatus(),
	}
}

func (s *CartService) withSession(ctx context.Context, sessionID string, fn func(*Session) error) error {
	sess := s.session(ctx, sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// session returns the cached session or restores it from the store. A store
// failure yields an empty cart rather than an error.
func (s *CartService) session(ctx context.Context, sessionID string) *Session {
	if sess, ok := s.sessions.Get(sessionID); ok {
		return sess
	}

	sess := &Session{ID: sessionID, ledger: domain.NewLedger(), orderType: domain.OrderDelivery}
	loadCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	snap, ok, err := s.store.Load(loadCtx, sessionID)
	cancel()
	switch {
	case err != nil:
		s.log.Warn("cart restore failed, starting empty", "session", sessionID, "err", err)
	case ok:
		sess.ledger = domain.RestoreLedger(snap)
		if notices := domain.Normalize(sess.ledger); len(notices) > 0 {
			sess.pending = notices
			s.persist(ctx, sess)
		}
	}

	if prev, found, _ := s.sessions.PeekOrAdd(sessionID, sess); found {
		return prev
	}
	return sess
}

// persist writes the snapshot. Failures are logged and swallowed: the
// in-memory ledger stays authoritative for the session.
func (s *CartService) persist(ctx context.Context, sess *Session) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.StoreTimeout)
	defer cancel()

	var err error
	if sess.ledger.Len() == 0 {
		err = s.store.Delete(ctx, sess.ID)
	} else {
		err = s.store.Save(ctx, sess.ID, sess.ledger.Snapshot())
	}
	if err != nil {
		s.rec.PersistFailure()
		logging.FromCtx(ctx).Warn("cart persist failed", "session", sess.ID, "err", fmt.Errorf("%w: %w", domain.ErrPersistence, err))
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrOfferLocked):
		return "offer_locked"
	case errors.Is(err, domain.ErrOfferAlreadyApplied):
		return "offer_already_applied"
	case errors.Is(err, domain.ErrOfferLimitExceeded):
		return "offer_limit_exceeded"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	default:
		return "error"
	}
}
