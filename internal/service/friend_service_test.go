package service

import (
	"context"
	"testing"

	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFriendRepo struct {
	getBetweenFn    func(ctx context.Context, a, b uint) ([]*model.FriendEdge, error)
	getByIDFn       func(ctx context.Context, id uint) (*model.FriendEdge, error)
	createFn        func(ctx context.Context, edge *model.FriendEdge) error
	acceptFn        func(ctx context.Context, edgeID, requesterID, targetID uint) error
	declineFn       func(ctx context.Context, edgeID uint) error
	deleteBetweenFn func(ctx context.Context, a, b uint) error
	listFriendsFn   func(ctx context.Context, userID uint) ([]*repository.FriendRow, error)
	listPendingFn   func(ctx context.Context, userID uint) ([]*repository.FriendRequestRow, error)
	listSentFn      func(ctx context.Context, userID uint) ([]*repository.FriendRequestRow, error)
}

var _ repository.IFriendRepository = (*fakeFriendRepo)(nil)

func (f *fakeFriendRepo) GetBetween(ctx context.Context, a, b uint) ([]*model.FriendEdge, error) {
	if f.getBetweenFn == nil {
		return nil, nil
	}
	return f.getBetweenFn(ctx, a, b)
}

func (f *fakeFriendRepo) GetByID(ctx context.Context, id uint) (*model.FriendEdge, error) {
	if f.getByIDFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeFriendRepo) Create(ctx context.Context, edge *model.FriendEdge) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, edge)
}

func (f *fakeFriendRepo) Accept(ctx context.Context, edgeID, requesterID, targetID uint) error {
	if f.acceptFn == nil {
		return nil
	}
	return f.acceptFn(ctx, edgeID, requesterID, targetID)
}

func (f *fakeFriendRepo) Decline(ctx context.Context, edgeID uint) error {
	if f.declineFn == nil {
		return nil
	}
	return f.declineFn(ctx, edgeID)
}

func (f *fakeFriendRepo) DeleteBetween(ctx context.Context, a, b uint) error {
	if f.deleteBetweenFn == nil {
		return nil
	}
	return f.deleteBetweenFn(ctx, a, b)
}

func (f *fakeFriendRepo) ListFriends(ctx context.Context, userID uint) ([]*repository.FriendRow, error) {
	if f.listFriendsFn == nil {
		return nil, nil
	}
	return f.listFriendsFn(ctx, userID)
}

func (f *fakeFriendRepo) ListPending(ctx context.Context, userID uint) ([]*repository.FriendRequestRow, error) {
	if f.listPendingFn == nil {
		return nil, nil
	}
	return f.listPendingFn(ctx, userID)
}

func (f *fakeFriendRepo) ListSent(ctx context.Context, userID uint) ([]*repository.FriendRequestRow, error) {
	if f.listSentFn == nil {
		return nil, nil
	}
	return f.listSentFn(ctx, userID)
}

type fakeUserRepo struct {
	createFn               func(ctx context.Context, user *model.User) error
	getByIDFn              func(ctx context.Context, id uint) (*model.User, error)
	getByUsernameOrEmailFn func(ctx context.Context, identifier string) (*model.User, error)
	updateStatusFn         func(ctx context.Context, id uint, status string) error
	searchFriendsFn        func(ctx context.Context, userID uint, query string, limit int) ([]*repository.UserSearchRow, error)
	searchAllFn            func(ctx context.Context, userID uint, query string, limit int) ([]*repository.UserSearchRow, error)
}

var _ repository.IUserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if f.getByIDFn == nil {
		return &model.User{ID: id}, nil
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	if f.getByUsernameOrEmailFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUsernameOrEmailFn(ctx, identifier)
}

func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	if f.updateStatusFn == nil {
		return nil
	}
	return f.updateStatusFn(ctx, id, status)
}

func (f *fakeUserRepo) SearchFriends(ctx context.Context, userID uint, query string, limit int) ([]*repository.UserSearchRow, error) {
	if f.searchFriendsFn == nil {
		return nil, nil
	}
	return f.searchFriendsFn(ctx, userID, query, limit)
}

func (f *fakeUserRepo) SearchAll(ctx context.Context, userID uint, query string, limit int) ([]*repository.UserSearchRow, error) {
	if f.searchAllFn == nil {
		return nil, nil
	}
	return f.searchAllFn(ctx, userID, query, limit)
}

func TestFriendServiceSendRequest(t *testing.T) {
	t.Run("self_request_rejected", func(t *testing.T) {
		createCalled := false
		svc := NewFriendService(&fakeFriendRepo{
			createFn: func(_ context.Context, _ *model.FriendEdge) error {
				createCalled = true
				return nil
			},
		}, &fakeUserRepo{})

		_, err := svc.SendRequest(context.Background(), 1, 1)
		require.ErrorIs(t, err, ErrSelfRequest)
		assert.False(t, createCalled)
	})

	t.Run("target_not_found", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{}, &fakeUserRepo{
			getByIDFn: func(_ context.Context, _ uint) (*model.User, error) {
				return nil, repository.ErrRecordNotFound
			},
		})

		_, err := svc.SendRequest(context.Background(), 1, 99)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("creates_pending_edge", func(t *testing.T) {
		var created *model.FriendEdge
		svc := NewFriendService(&fakeFriendRepo{
			createFn: func(_ context.Context, edge *model.FriendEdge) error {
				created = edge
				return nil
			},
		}, &fakeUserRepo{})

		status, err := svc.SendRequest(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, model.FriendStatusPending, status)
		require.NotNil(t, created)
		assert.Equal(t, uint(1), created.RequesterID)
		assert.Equal(t, uint(2), created.TargetID)
		assert.Equal(t, model.FriendStatusPending, created.Status)
	})

	t.Run("duplicate_pending_rejected", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{
			getBetweenFn: func(_ context.Context, _, _ uint) ([]*model.FriendEdge, error) {
				return []*model.FriendEdge{
					{ID: 10, RequesterID: 1, TargetID: 2, Status: model.FriendStatusPending},
				}, nil
			},
		}, &fakeUserRepo{})

		_, err := svc.SendRequest(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrRequestExists)
	})

	t.Run("already_friends_rejected", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{
			getBetweenFn: func(_ context.Context, _, _ uint) ([]*model.FriendEdge, error) {
				return []*model.FriendEdge{
					{ID: 10, RequesterID: 1, TargetID: 2, Status: model.FriendStatusAccepted},
					{ID: 11, RequesterID: 2, TargetID: 1, Status: model.FriendStatusAccepted},
				}, nil
			},
		}, &fakeUserRepo{})

		_, err := svc.SendRequest(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrRequestExists)
	})

	t.Run("counter_request_auto_accepts", func(t *testing.T) {
		var acceptedEdge, acceptedRequester, acceptedTarget uint
		svc := NewFriendService(&fakeFriendRepo{
			getBetweenFn: func(_ context.Context, _, _ uint) ([]*model.FriendEdge, error) {
				// 对方（用户2）先发了请求
				return []*model.FriendEdge{
					{ID: 10, RequesterID: 2, TargetID: 1, Status: model.FriendStatusPending},
				}, nil
			},
			acceptFn: func(_ context.Context, edgeID, requesterID, targetID uint) error {
				acceptedEdge, acceptedRequester, acceptedTarget = edgeID, requesterID, targetID
				return nil
			},
		}, &fakeUserRepo{})

		status, err := svc.SendRequest(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, model.FriendStatusAccepted, status)
		assert.Equal(t, uint(10), acceptedEdge)
		assert.Equal(t, uint(2), acceptedRequester)
		assert.Equal(t, uint(1), acceptedTarget)
	})

	t.Run("declined_edge_blocks_retry", func(t *testing.T) {
		createCalled := false
		svc := NewFriendService(&fakeFriendRepo{
			getBetweenFn: func(_ context.Context, _, _ uint) ([]*model.FriendEdge, error) {
				return []*model.FriendEdge{
					{ID: 10, RequesterID: 1, TargetID: 2, Status: model.FriendStatusDeclined},
				}, nil
			},
			createFn: func(_ context.Context, _ *model.FriendEdge) error {
				createCalled = true
				return nil
			},
		}, &fakeUserRepo{})

		_, err := svc.SendRequest(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrRequestExists)
		assert.False(t, createCalled)
	})

	t.Run("reverse_declined_edge_blocks_request", func(t *testing.T) {
		// 对方发过请求且已被我拒绝，再主动发起同样算重复
		svc := NewFriendService(&fakeFriendRepo{
			getBetweenFn: func(_ context.Context, _, _ uint) ([]*model.FriendEdge, error) {
				return []*model.FriendEdge{
					{ID: 10, RequesterID: 2, TargetID: 1, Status: model.FriendStatusDeclined},
				}, nil
			},
		}, &fakeUserRepo{})

		_, err := svc.SendRequest(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrRequestExists)
	})

	t.Run("concurrent_duplicate_maps_to_exists", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{
			createFn: func(_ context.Context, _ *model.FriendEdge) error {
				return repository.ErrDuplicateKey
			},
		}, &fakeUserRepo{})

		_, err := svc.SendRequest(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrRequestExists)
	})
}

func TestFriendServiceRespond(t *testing.T) {
	pendingEdge := func() *model.FriendEdge {
		return &model.FriendEdge{ID: 10, RequesterID: 1, TargetID: 2, Status: model.FriendStatusPending}
	}

	t.Run("unknown_request", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{}, &fakeUserRepo{})
		err := svc.Respond(context.Background(), 999, 2, true)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("only_target_may_respond", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{
			getByIDFn: func(_ context.Context, _ uint) (*model.FriendEdge, error) {
				return pendingEdge(), nil
			},
		}, &fakeUserRepo{})

		// 请求方自己不能接受
		err := svc.Respond(context.Background(), 10, 1, true)
		require.ErrorIs(t, err, ErrNotFound)

		// 第三方也不能
		err = svc.Respond(context.Background(), 10, 3, true)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already_resolved_conflicts", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{
			getByIDFn: func(_ context.Context, _ uint) (*model.FriendEdge, error) {
				return &model.FriendEdge{ID: 10, RequesterID: 1, TargetID: 2, Status: model.FriendStatusAccepted}, nil
			},
		}, &fakeUserRepo{})

		err := svc.Respond(context.Background(), 10, 2, true)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("accept_flows_to_repository", func(t *testing.T) {
		var acceptedRequester, acceptedTarget uint
		svc := NewFriendService(&fakeFriendRepo{
			getByIDFn: func(_ context.Context, _ uint) (*model.FriendEdge, error) {
				return pendingEdge(), nil
			},
			acceptFn: func(_ context.Context, _, requesterID, targetID uint) error {
				acceptedRequester, acceptedTarget = requesterID, targetID
				return nil
			},
		}, &fakeUserRepo{})

		require.NoError(t, svc.Respond(context.Background(), 10, 2, true))
		assert.Equal(t, uint(1), acceptedRequester)
		assert.Equal(t, uint(2), acceptedTarget)
	})

	t.Run("decline_flows_to_repository", func(t *testing.T) {
		declined := false
		svc := NewFriendService(&fakeFriendRepo{
			getByIDFn: func(_ context.Context, _ uint) (*model.FriendEdge, error) {
				return pendingEdge(), nil
			},
			declineFn: func(_ context.Context, edgeID uint) error {
				declined = true
				assert.Equal(t, uint(10), edgeID)
				return nil
			},
		}, &fakeUserRepo{})

		require.NoError(t, svc.Respond(context.Background(), 10, 2, false))
		assert.True(t, declined)
	})

	t.Run("lost_race_maps_to_conflict", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{
			getByIDFn: func(_ context.Context, _ uint) (*model.FriendEdge, error) {
				return pendingEdge(), nil
			},
			acceptFn: func(_ context.Context, _, _, _ uint) error {
				return repository.ErrRecordNotFound
			},
		}, &fakeUserRepo{})

		err := svc.Respond(context.Background(), 10, 2, true)
		require.ErrorIs(t, err, ErrConflict)
	})
}

func TestFriendServiceRemove(t *testing.T) {
	t.Run("self_removal_rejected", func(t *testing.T) {
		svc := NewFriendService(&fakeFriendRepo{}, &fakeUserRepo{})
		require.ErrorIs(t, svc.Remove(context.Background(), 1, 1), ErrSelfRequest)
	})

	t.Run("idempotent", func(t *testing.T) {
		calls := 0
		svc := NewFriendService(&fakeFriendRepo{
			deleteBetweenFn: func(_ context.Context, a, b uint) error {
				calls++
				assert.Equal(t, uint(1), a)
				assert.Equal(t, uint(2), b)
				return nil
			},
		}, &fakeUserRepo{})

		require.NoError(t, svc.Remove(context.Background(), 1, 2))
		require.NoError(t, svc.Remove(context.Background(), 1, 2))
		assert.Equal(t, 2, calls)
	})
}
