package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/logging"
	"github.com/google/uuid"
)

var ErrDuplicate = errors.New("duplicate idempotency key")

type CheckoutInput struct {
	SessionID, IdempotencyKey string
	NameAddress, Notes        string
}

type CheckoutOutput struct {
	Ref      string      `json:"ref"`
	URL      string      `json:"url"`
	Message  string      `json:"message"`
	Bill     domain.Bill `json:"bill"`
	Replayed bool        `json:"replayed,omitempty"`
}

// Checkout turns the session cart into a WhatsApp handoff and clears it.
type Checkout struct {
	carts    *CartService
	idem     IdempotencyStore
	pub      HandoffPublisher
	brand    string
	whatsApp string
}

func NewCheckout(carts *CartService, idem IdempotencyStore, pub HandoffPublisher, brand, fallbackWhatsApp string) *Checkout {
	return &Checkout{carts: carts, idem: idem, pub: pub, brand: brand, whatsApp: fallbackWhatsApp}
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	useIdem := uc.idem != nil && in.IdempotencyKey != ""
	if useIdem {
		if raw, ok, _ := uc.idem.Recall(ctx, in.SessionID, in.IdempotencyKey); ok {
			var out CheckoutOutput
			if err := json.Unmarshal([]byte(raw), &out); err == nil {
				out.Replayed = true
				return out, nil
			}
		}
		ok, err := uc.idem.TryLock(ctx, in.SessionID, in.IdempotencyKey)
		if err != nil {
			return CheckoutOutput{}, err
		}
		if !ok {
			return CheckoutOutput{}, ErrDuplicate
		}
	}

	out, err := uc.handoff(ctx, in)
	if err != nil {
		if useIdem {
			_ = uc.idem.Release(ctx, in.SessionID, in.IdempotencyKey)
		}
		return CheckoutOutput{}, err
	}

	if useIdem {
		if raw, err := json.Marshal(out); err == nil {
			_ = uc.idem.Remember(ctx, in.SessionID, in.IdempotencyKey, string(raw))
		}
	}
	return out, nil
}

func (uc *Checkout) handoff(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	var (
		out CheckoutOutput
		msg HandoffMsg
	)
	err := uc.carts.withSession(ctx, in.SessionID, func(sess *Session) error {
		draft := domain.OrderDraft{
			Brand:       uc.brand,
			OrderType:   sess.orderType,
			Lines:       sess.ledger.Lines(),
			Bill:        domain.ComputeBill(sess.ledger, sess.orderType, uc.carts.pricing()),
			Notes:       in.Notes,
			NameAddress: in.NameAddress,
		}
		if err := draft.Validate(); err != nil {
			return err
		}

		text := draft.Message()
		out = CheckoutOutput{
			Ref:     uuid.NewString(),
			URL:     domain.WhatsAppLink(uc.whatsAppNumber(), text),
			Message: text,
			Bill:    draft.Bill,
		}
		msg = HandoffMsg{
			Ref:        out.Ref,
			SessionID:  sess.ID,
			OrderType:  string(sess.orderType),
			Items:      sess.ledger.Count(),
			GrandTotal: draft.Bill.GrandTotal,
			At:         uc.carts.cfg.Now().UTC(),
		}

		sess.ledger.Clear()
		uc.carts.persist(ctx, sess)
		uc.carts.rec.Handoff(sess.orderType)
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	if uc.pub != nil {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		if err := uc.pub.PublishHandoff(pubCtx, msg); err != nil {
			logging.FromCtx(ctx).Warn("handoff event not published", "ref", msg.Ref, "err", err)
		}
	}
	logging.FromCtx(ctx).Info("order handed off", "ref", out.Ref, "order_type", msg.OrderType,
		"items", msg.Items, "grand_total", msg.GrandTotal)
	return out, nil
}

func (uc *Checkout) whatsAppNumber() string {
	if c := uc.carts.catalogs.Current(); c != nil && c.Contact.WhatsApp != "" {
		return c.Contact.WhatsApp
	}
	return uc.whatsApp
}

// Publishers fans a handoff out to every publisher and joins their errors.
type Publishers []HandoffPublisher

func (ps Publishers) PublishHandoff(ctx context.Context, msg HandoffMsg) error {
	var errs []error
	for _, p := range ps {
		if err := p.PublishHandoff(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
