package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gameshelf/internal/domain"
)

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) Emit(ctx context.Context, input domain.EmitInput) ([]domain.Notification, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func newSubscriber(emitter Emitter) *Subscriber {
	return NewSubscriber(nil, "test.subject", emitter, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubscriber_Handle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Valid event is emitted", func(t *testing.T) {
		emitter := new(MockEmitter)
		sub := newSubscriber(emitter)
		emitter.On("Emit", ctx, mock.MatchedBy(func(in domain.EmitInput) bool {
			return in.Type == domain.NotifStatusChange && len(in.TargetUserIDs) == 1 && in.TargetUserIDs[0] == userID
		})).Return([]domain.Notification{{UserID: userID}}, nil).Once()

		err := sub.Handle(ctx, []byte(`{"type":"status_change","title":"Now playing","target_user_ids":["`+userID.String()+`"]}`))

		assert.NoError(t, err)
		emitter.AssertExpectations(t)
	})

	t.Run("Malformed payload", func(t *testing.T) {
		emitter := new(MockEmitter)
		sub := newSubscriber(emitter)

		err := sub.Handle(ctx, []byte(`{not json`))

		assert.Error(t, err)
		emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	})

	t.Run("Missing targets", func(t *testing.T) {
		emitter := new(MockEmitter)
		sub := newSubscriber(emitter)

		err := sub.Handle(ctx, []byte(`{"type":"release","title":"Out now","target_user_ids":[]}`))

		assert.Error(t, err)
		emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	})

	t.Run("Unknown type", func(t *testing.T) {
		emitter := new(MockEmitter)
		sub := newSubscriber(emitter)

		err := sub.Handle(ctx, []byte(`{"type":"birthday","title":"x","target_user_ids":["`+userID.String()+`"]}`))

		assert.Error(t, err)
	})

	t.Run("Emit failure surfaces", func(t *testing.T) {
		emitter := new(MockEmitter)
		sub := newSubscriber(emitter)
		dbErr := errors.New("insert failed")
		emitter.On("Emit", ctx, mock.Anything).Return(nil, dbErr).Once()

		err := sub.Handle(ctx, []byte(`{"type":"release","title":"Out now","target_user_ids":["`+userID.String()+`"]}`))

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestSubscriber_StopWithoutStart(t *testing.T) {
	sub := newSubscriber(new(MockEmitter))
	assert.NoError(t, sub.Stop())
}
