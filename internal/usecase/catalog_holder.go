package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/logging"
)

// CatalogHolder owns the live menu. Until the first load succeeds Current
// returns nil, which the rest of the system reads as an empty menu.
type CatalogHolder struct {
	src     CatalogSource
	rec     Recorder
	timeout time.Duration
	cur     atomic.Pointer[domain.Catalog]
}

func NewCatalogHolder(src CatalogSource, rec Recorder, timeout time.Duration) *CatalogHolder {
	if rec == nil {
		rec = nopRecorder{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogHolder{src: src, rec: rec, timeout: timeout}
}

func (h *CatalogHolder) Current() *domain.Catalog { return h.cur.Load() }

// Load fetches the catalog and swaps it in. On failure the previous catalog,
// if any, stays live.
func (h *CatalogHolder) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	c, err := h.src.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCatalogLoad) {
			err = fmt.Errorf("%w: %w", domain.ErrCatalogLoad, err)
		}
		return err
	}
	h.cur.Store(c)
	h.rec.CatalogLoaded(c.ItemCount())
	logging.FromCtx(ctx).Info("catalog loaded", "categories", len(c.Categories), "items", c.ItemCount(),
		"offer_enabled", c.TodayOffer.Enabled)
	return nil
}

// LoadAsync performs the startup fetch in the background.
func (h *CatalogHolder) LoadAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := h.Load(ctx)
		if err != nil {
			logging.FromCtx(ctx).Error("catalog load failed", "err", err)
		}
		done <- err
		close(done)
	}()
	return done
}

// OnCatalogPublished reloads the menu when the CMS announces a new version.
func (h *CatalogHolder) OnCatalogPublished(ctx context.Context, msg CatalogPublishedMsg) error {
	logging.FromCtx(ctx).Info("catalog published", "version", msg.Version, "source", msg.Source)
	return h.Load(ctx)
}
