package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCheckout(t *testing.T) (*Checkout, *CartService, *memCartStore, *recordingPublisher, *countingRecorder) {
	t.Helper()
	store := newMemCartStore()
	rec := newCountingRecorder()
	carts := newTestCartService(t, store, rec, lunchTime)
	pub := &recordingPublisher{}
	return NewCheckout(carts, newMemIdem(), pub, "Lucky Food", "+91 00000 00000"), carts, store, pub, rec
}

func TestCheckout_HandsOffAndClears(t *testing.T) {
	uc, carts, store, pub, rec := newTestCheckout(t)
	ctx := context.Background()

	_, err := carts.SetQuantity(ctx, "s1", ItemRef{ID: "201"}, 2)
	require.NoError(t, err)

	out, err := uc.Execute(ctx, CheckoutInput{SessionID: "s1", NameAddress: "Asha, 12 MG Road", Notes: "less spicy"})
	require.NoError(t, err)

	assert.NotEmpty(t, out.Ref)
	assert.Equal(t, domain.Amount(462), out.Bill.GrandTotal)
	assert.Contains(t, out.Message, "🍽️ *Lucky Food – Website Order*")
	assert.Contains(t, out.Message, "*Total Payable: ₹462*")
	assert.Contains(t, out.Message, "Name & Address: Asha, 12 MG Road")

	u, err := url.Parse(out.URL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/+919326510688", u.Path, "catalog contact wins over the fallback number")
	assert.Equal(t, out.Message, u.Query().Get("text"))

	view, err := carts.View(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.NotContains(t, store.snaps, "s1")

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, out.Ref, pub.msgs[0].Ref)
	assert.Equal(t, 2, pub.msgs[0].Items)
	assert.Equal(t, "delivery", pub.msgs[0].OrderType)
	assert.Equal(t, 1, rec.handoffs[domain.OrderDelivery])
}

func TestCheckout_Validation(t *testing.T) {
	uc, carts, _, pub, _ := newTestCheckout(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CheckoutInput{SessionID: "s1", NameAddress: "Asha"})
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = carts.SetQuantity(ctx, "s1", ItemRef{ID: "201"}, 1)
	require.NoError(t, err)
	_, err = uc.Execute(ctx, CheckoutInput{SessionID: "s1", NameAddress: "  "})
	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "nameAddress", missing.Field)

	view, err := carts.View(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1, "a rejected checkout keeps the cart")
	assert.Empty(t, pub.msgs)
}

func TestCheckout_IdempotentReplay(t *testing.T) {
	uc, carts, _, pub, _ := newTestCheckout(t)
	ctx := context.Background()

	_, err := carts.SetQuantity(ctx, "s1", ItemRef{ID: "202"}, 1)
	require.NoError(t, err)

	in := CheckoutInput{SessionID: "s1", IdempotencyKey: "k-1", NameAddress: "Asha"}
	first, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	second, err := uc.Execute(ctx, in)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Ref, second.Ref)
	assert.Equal(t, first.URL, second.URL)
	assert.Len(t, pub.msgs, 1)
}

func TestCheckout_DuplicateInFlight(t *testing.T) {
	uc, carts, _, _, _ := newTestCheckout(t)
	ctx := context.Background()

	_, err := carts.SetQuantity(ctx, "s1", ItemRef{ID: "202"}, 1)
	require.NoError(t, err)

	locked, err := uc.idem.TryLock(ctx, "s1", "k-2")
	require.NoError(t, err)
	require.True(t, locked)

	_, err = uc.Execute(ctx, CheckoutInput{SessionID: "s1", IdempotencyKey: "k-2", NameAddress: "Asha"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestCheckout_FailureReleasesKey(t *testing.T) {
	uc, carts, _, _, _ := newTestCheckout(t)
	ctx := context.Background()

	in := CheckoutInput{SessionID: "s1", IdempotencyKey: "k-3", NameAddress: "Asha"}
	_, err := uc.Execute(ctx, in)
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = carts.SetQuantity(ctx, "s1", ItemRef{ID: "202"}, 1)
	require.NoError(t, err)
	out, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.False(t, out.Replayed)
}

func TestCheckout_PublishFailureIsNotFatal(t *testing.T) {
	uc, carts, _, pub, _ := newTestCheckout(t)
	pub.err = errors.New("broker down")
	ctx := context.Background()

	_, err := carts.SetQuantity(ctx, "s1", ItemRef{ID: "202"}, 1)
	require.NoError(t, err)
	out, err := uc.Execute(ctx, CheckoutInput{SessionID: "s1", NameAddress: "Asha"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.URL, "https://wa.me/"))
}

func TestPublishers_FanOut(t *testing.T) {
	ok, bad := &recordingPublisher{}, &recordingPublisher{err: errors.New("down")}
	err := Publishers{bad, ok}.PublishHandoff(context.Background(), HandoffMsg{Ref: "r"})

	require.Error(t, err)
	assert.Len(t, ok.msgs, 1, "one failing publisher does not starve the rest")
	assert.Len(t, bad.msgs, 1)
	assert.NoError(t, Publishers{}.PublishHandoff(context.Background(), HandoffMsg{}))
}
