package push

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMessagingClient struct {
	mock.Mock
}

func (m *MockMessagingClient) Send(ctx context.Context, message *messaging.Message) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func TestFCMSender_Send(t *testing.T) {
	ctx := context.Background()
	msg := Message{Title: "X released", Body: "Out now", Data: map[string]string{"type": "release"}}

	t.Run("Success", func(t *testing.T) {
		client := new(MockMessagingClient)
		client.On("Send", ctx, mock.MatchedBy(func(m *messaging.Message) bool {
			return m.Token == "tok-1" && m.Notification.Title == "X released" && m.Data["type"] == "release"
		})).Return("projects/p/messages/1", nil).Once()

		res := (&fcmSender{client: client}).Send(ctx, "tok-1", msg)

		assert.True(t, res.Success)
		assert.Equal(t, "projects/p/messages/1", res.MessageID)
		assert.NoError(t, res.Error)
		client.AssertExpectations(t)
	})

	t.Run("Provider Error", func(t *testing.T) {
		client := new(MockMessagingClient)
		client.On("Send", ctx, mock.Anything).Return("", errors.New("unavailable")).Once()

		res := (&fcmSender{client: client}).Send(ctx, "tok-1", msg)

		assert.False(t, res.Success)
		assert.EqualError(t, res.Error, "unavailable")
		assert.False(t, res.Unregistered)
	})
}

func TestNewSender_NilClientLogs(t *testing.T) {
	sender := NewSender(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res := sender.Send(context.Background(), "tok", Message{Title: "t"})

	assert.True(t, res.Success)
}
