package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/aq2208/gorder-cart/internal/logging"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	marked []string
}

func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "m" }
func (s *fakeSession) GenerationID() int32                      { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context                 { return context.Background() }
func (s *fakeSession) MarkMessage(_ *sarama.ConsumerMessage, meta string) {
	s.marked = append(s.marked, meta)
}

type fakeClaim struct{ msgs chan *sarama.ConsumerMessage }

func (c *fakeClaim) Topic() string                            { return "catalog.published" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 3 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func TestConsumeClaim(t *testing.T) {
	claim := &fakeClaim{msgs: make(chan *sarama.ConsumerMessage, 3)}
	claim.msgs <- &sarama.ConsumerMessage{Value: []byte(`{"version":"12","source":"cms"}`), Offset: 0}
	claim.msgs <- &sarama.ConsumerMessage{Value: []byte(`garbage`), Offset: 1}
	claim.msgs <- &sarama.ConsumerMessage{Value: []byte(`{"version":"13"}`), Offset: 2}
	close(claim.msgs)

	var got []usecase.CatalogPublishedMsg
	h := &cgHandler{logger: logging.New("test"), handle: func(_ context.Context, ev usecase.CatalogPublishedMsg) error {
		got = append(got, ev)
		if ev.Version == "13" {
			return errors.New("fetch failed")
		}
		return nil
	}}
	sess := &fakeSession{}

	require.NoError(t, h.ConsumeClaim(sess, claim))

	require.Len(t, got, 2)
	assert.Equal(t, usecase.CatalogPublishedMsg{Version: "12", Source: "cms"}, got[0])
	assert.Equal(t, []string{"", "decode-error", ""}, sess.marked)
}
