package service

import (
	"context"
	"testing"
	"time"

	"morse-mastery/config"
	"morse-mastery/internal/model"
	"morse-mastery/internal/repository"
	"morse-mastery/pkg/jwt"
	"morse-mastery/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		ExpireTime: time.Hour,
		Issuer:     "morse-mastery-test",
	})
}

func TestUserServiceRegister(t *testing.T) {
	t.Run("success_inits_stats_and_returns_token", func(t *testing.T) {
		statsInited := false
		svc := NewUserService(&fakeUserRepo{
			createFn: func(_ context.Context, user *model.User) error {
				user.ID = 42
				// 密码必须已经哈希
				assert.NotEqual(t, "secret123", user.PasswordHash)
				assert.True(t, password.Verify("secret123", user.PasswordHash))
				return nil
			},
		}, &fakeProgressRepo{
			initStatsFn: func(_ context.Context, userID uint) error {
				statsInited = true
				assert.Equal(t, uint(42), userID)
				return nil
			},
		}, testJWTService())

		user, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, uint(42), user.ID)
		assert.NotEmpty(t, token)
		assert.True(t, statsInited)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{
			createFn: func(_ context.Context, _ *model.User) error {
				return repository.ErrDuplicateKey
			},
		}, &fakeProgressRepo{}, testJWTService())

		_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
		require.ErrorIs(t, err, ErrUserExists)
	})
}

func TestUserServiceLogin(t *testing.T) {
	hash, err := password.Hash("secret123")
	require.NoError(t, err)
	stored := &model.User{ID: 42, Username: "alice", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{
			getByUsernameOrEmailFn: func(_ context.Context, identifier string) (*model.User, error) {
				assert.Equal(t, "alice", identifier)
				return stored, nil
			},
		}, &fakeProgressRepo{}, testJWTService())

		user, token, err := svc.Login(context.Background(), "alice", "secret123")
		require.NoError(t, err)
		assert.Equal(t, uint(42), user.ID)

		claims, err := testJWTService().ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "alice", claims.Data["username"])
	})

	t.Run("wrong_password", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{
			getByUsernameOrEmailFn: func(_ context.Context, _ string) (*model.User, error) {
				return stored, nil
			},
		}, &fakeProgressRepo{}, testJWTService())

		_, _, err := svc.Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown_user_same_error_as_wrong_password", func(t *testing.T) {
		svc := NewUserService(&fakeUserRepo{
			getByUsernameOrEmailFn: func(_ context.Context, _ string) (*model.User, error) {
				return nil, repository.ErrRecordNotFound
			},
		}, &fakeProgressRepo{}, testJWTService())

		_, _, err := svc.Login(context.Background(), "nobody", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserServiceProfile(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{
		getByIDFn: func(_ context.Context, id uint) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}, &fakeProgressRepo{
		getStatsFn: func(_ context.Context, _ uint) (*model.UserStats, error) {
			return &model.UserStats{UserID: 42, TotalPoints: 120}, nil
		},
		countCompletedFn: func(_ context.Context, _ uint) (int64, error) {
			return 5, nil
		},
	}, testJWTService())

	profile, err := svc.Profile(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Equal(t, 120, profile.Stats.TotalPoints)
	assert.Equal(t, int64(5), profile.LessonsComplete)
}
