package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gameshelf/internal/domain"
	"gameshelf/internal/repository"
	"gameshelf/internal/repository/mocks"
	"gameshelf/internal/service/notification"
	"gameshelf/internal/service/preference"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, userID uuid.UUID, t domain.NotificationType) (domain.Policy, error) {
	args := m.Called(ctx, userID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Policy), args.Error(1)
}

type recordingQueue struct {
	jobs []domain.DispatchJob
}

func (q *recordingQueue) Submit(job domain.DispatchJob) {
	q.jobs = append(q.jobs, job)
}

func (q *recordingQueue) channels() []domain.Channel {
	out := make([]domain.Channel, 0, len(q.jobs))
	for _, j := range q.jobs {
		out = append(out, j.Channel)
	}
	return out
}

func newService() (notification.Service, *mocks.NotificationRepository, *MockResolver, *recordingQueue) {
	repo := new(mocks.NotificationRepository)
	resolver := new(MockResolver)
	queue := &recordingQueue{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notification.NewService(repo, resolver, queue, nil, 0, logger), repo, resolver, queue
}

func explicit(inApp, email, push bool, freq domain.Frequency) domain.Policy {
	return domain.ExplicitPolicy{Preference: domain.NotificationPreference{
		InApp: inApp, Email: email, Push: push, Frequency: freq,
	}}
}

func TestNotificationService_Emit(t *testing.T) {
	ctx := context.Background()
	gameID := uuid.New()

	t.Run("Realtime user gets record and both outbound jobs", func(t *testing.T) {
		svc, repo, resolver, queue := newService()
		userID := uuid.New()
		resolver.On("Resolve", ctx, userID, domain.NotifRelease).
			Return(domain.ResolvePolicy(nil, domain.MasterToggles{InApp: true, Email: true, Push: true}), nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == userID && n.Type == domain.NotifRelease && n.Title == "Out now" &&
				n.RelatedEntityID != nil && *n.RelatedEntityID == gameID
		})).Return(nil).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:            domain.NotifRelease,
			Title:           "Out now",
			Message:         "A game on your wishlist was released",
			RelatedEntityID: &gameID,
			TargetUserIDs:   []uuid.UUID{userID},
		})

		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, []domain.Channel{domain.ChannelEmail, domain.ChannelPush}, queue.channels())
		assert.Equal(t, userID, queue.jobs[0].UserID)
		assert.Equal(t, "Out now", queue.jobs[0].Payload.Title)
		assert.Equal(t, &gameID, queue.jobs[1].Payload.RelatedEntityID)
		repo.AssertExpectations(t)
	})

	t.Run("Frequency none produces nothing", func(t *testing.T) {
		svc, repo, resolver, queue := newService()
		userID := uuid.New()
		resolver.On("Resolve", ctx, userID, domain.NotifGOTY).
			Return(explicit(true, true, true, domain.FrequencyNone), nil).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifGOTY,
			Title:         "Game of the year",
			TargetUserIDs: []uuid.UUID{userID},
		})

		require.NoError(t, err)
		assert.Empty(t, created)
		assert.Empty(t, queue.jobs)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Digest frequency keeps only the in-app record", func(t *testing.T) {
		svc, repo, resolver, queue := newService()
		userID := uuid.New()
		resolver.On("Resolve", ctx, userID, domain.NotifUpdate).
			Return(explicit(true, true, true, domain.FrequencyDailyDigest), nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifUpdate,
			Title:         "Patch 1.2",
			TargetUserIDs: []uuid.UUID{userID},
		})

		require.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Empty(t, queue.jobs)
	})

	t.Run("In-app disabled still sends email", func(t *testing.T) {
		svc, repo, resolver, queue := newService()
		userID := uuid.New()
		resolver.On("Resolve", ctx, userID, domain.NotifReviewLike).
			Return(explicit(false, true, false, domain.FrequencyRealtime), nil).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifReviewLike,
			Title:         "Someone liked your review",
			TargetUserIDs: []uuid.UUID{userID},
		})

		require.NoError(t, err)
		assert.Empty(t, created)
		assert.Equal(t, []domain.Channel{domain.ChannelEmail}, queue.channels())
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Missing user is skipped", func(t *testing.T) {
		svc, repo, resolver, queue := newService()
		gone := uuid.New()
		present := uuid.New()
		resolver.On("Resolve", ctx, gone, domain.NotifMilestone).Return(nil, nil).Once()
		resolver.On("Resolve", ctx, present, domain.NotifMilestone).
			Return(explicit(true, false, false, domain.FrequencyRealtime), nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == present
		})).Return(nil).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifMilestone,
			Title:         "100 games completed",
			TargetUserIDs: []uuid.UUID{gone, present},
		})

		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, present, created[0].UserID)
		assert.Empty(t, queue.jobs)
	})

	t.Run("Storage failure propagates", func(t *testing.T) {
		svc, repo, resolver, queue := newService()
		first := uuid.New()
		second := uuid.New()
		dbErr := errors.New("disk full")
		resolver.On("Resolve", ctx, first, domain.NotifStatusChange).
			Return(explicit(true, false, false, domain.FrequencyRealtime), nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(dbErr).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifStatusChange,
			Title:         "Status changed",
			TargetUserIDs: []uuid.UUID{first, second},
		})

		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, created)
		assert.Empty(t, queue.jobs)
		resolver.AssertNotCalled(t, "Resolve", ctx, second, domain.NotifStatusChange)
	})

	t.Run("Resolver failure propagates", func(t *testing.T) {
		svc, _, resolver, _ := newService()
		userID := uuid.New()
		dbErr := errors.New("timeout")
		resolver.On("Resolve", ctx, userID, domain.NotifRelease).Return(nil, dbErr).Once()

		_, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifRelease,
			Title:         "Out now",
			TargetUserIDs: []uuid.UUID{userID},
		})

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		svc, _, resolver, _ := newService()

		_, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotificationType("birthday"),
			Title:         "x",
			TargetUserIDs: []uuid.UUID{uuid.New()},
		})

		assert.Error(t, err)
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, repo, _, _ := newService()

	params := domain.PaginationParams{Page: 2, PageSize: 10}
	items := []domain.Notification{{ID: uuid.New(), UserID: userID}}
	repo.On("ListByUser", ctx, userID, true, params).Return(items, int64(11), nil).Once()

	resp, err := svc.List(ctx, userID, true, params)

	require.NoError(t, err)
	assert.Equal(t, items, resp.Data)
	assert.Equal(t, 2, resp.TotalPages)
	assert.False(t, resp.HasNext)
	assert.True(t, resp.HasPrev)
}

func TestNotificationService_Ownership(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	notifID := uuid.New()

	t.Run("MarkAsRead not found", func(t *testing.T) {
		svc, repo, _, _ := newService()
		repo.On("MarkAsRead", ctx, notifID, owner).Return(repository.ErrNotFound).Once()

		err := svc.MarkAsRead(ctx, notifID, owner)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Delete success", func(t *testing.T) {
		svc, repo, _, _ := newService()
		repo.On("Delete", ctx, notifID, owner).Return(nil).Once()

		assert.NoError(t, svc.Delete(ctx, notifID, owner))
		repo.AssertExpectations(t)
	})

	t.Run("MarkAllAsRead returns affected rows", func(t *testing.T) {
		svc, repo, _, _ := newService()
		repo.On("MarkAllAsRead", ctx, owner).Return(int64(3), nil).Once()

		n, err := svc.MarkAllAsRead(ctx, owner)

		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestNotificationService_GetUnreadCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc, repo, _, _ := newService()
	repo.On("CountUnread", ctx, userID).Return(int64(4), nil).Once()

	count, err := svc.GetUnreadCount(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestNotificationService_EmitResolvesThroughPreferences(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := uuid.New()

	t.Run("Master toggles without a preference row", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		prefRepo := new(mocks.PreferenceRepository)
		userRepo := new(mocks.UserRepository)
		queue := &recordingQueue{}
		svc := notification.NewService(notifRepo, preference.NewService(prefRepo, userRepo, logger), queue, nil, 0, logger)

		prefRepo.On("GetByUserAndType", ctx, userID, domain.NotifRelease).Return(nil, nil).Once()
		userRepo.On("GetByID", ctx, userID).
			Return(&domain.User{ID: userID, NotifyInApp: true, NotifyEmail: true, NotifyPush: false}, nil).Once()
		notifRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifRelease,
			Title:         "X released",
			TargetUserIDs: []uuid.UUID{userID},
		})

		require.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, []domain.Channel{domain.ChannelEmail}, queue.channels())
	})

	t.Run("Explicit mute", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		prefRepo := new(mocks.PreferenceRepository)
		userRepo := new(mocks.UserRepository)
		queue := &recordingQueue{}
		svc := notification.NewService(notifRepo, preference.NewService(prefRepo, userRepo, logger), queue, nil, 0, logger)

		muted := domain.DefaultPreference(userID, domain.NotifReviewLike)
		muted.Frequency = domain.FrequencyNone
		userRepo.On("GetByID", ctx, userID).
			Return(&domain.User{ID: userID, NotifyInApp: true, NotifyEmail: true, NotifyPush: true}, nil).Once()
		prefRepo.On("GetByUserAndType", ctx, userID, domain.NotifReviewLike).Return(muted, nil).Once()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifReviewLike,
			Title:         "Someone liked your review",
			TargetUserIDs: []uuid.UUID{userID},
		})

		require.NoError(t, err)
		assert.Empty(t, created)
		assert.Empty(t, queue.jobs)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Deleted users are skipped with or without a preference row", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		prefRepo := new(mocks.PreferenceRepository)
		userRepo := new(mocks.UserRepository)
		queue := &recordingQueue{}
		svc := notification.NewService(notifRepo, preference.NewService(prefRepo, userRepo, logger), queue, nil, 0, logger)

		withRow := uuid.New()
		withoutRow := uuid.New()
		userRepo.On("GetByID", ctx, withRow).Return(nil, nil).Once()
		userRepo.On("GetByID", ctx, withoutRow).Return(nil, nil).Once()
		prefRepo.On("GetByUserAndType", ctx, withRow, domain.NotifRelease).
			Return(domain.DefaultPreference(withRow, domain.NotifRelease), nil).Maybe()
		prefRepo.On("GetByUserAndType", ctx, withoutRow, domain.NotifRelease).Return(nil, nil).Maybe()

		created, err := svc.Emit(ctx, domain.EmitInput{
			Type:          domain.NotifRelease,
			Title:         "X released",
			TargetUserIDs: []uuid.UUID{withRow, withoutRow},
		})

		require.NoError(t, err)
		assert.Empty(t, created)
		assert.Empty(t, queue.jobs)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
