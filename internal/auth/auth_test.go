package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	user := User{ID: uuid.New(), Email: "dev@example.com"}

	signed, exp, err := tokens.Generate(user)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, userID, err := tokens.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
	require.Equal(t, user.Email, claims.Email)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	signed, _, err := NewTokenManager("secret-a", time.Hour).Generate(User{ID: uuid.New()})
	require.NoError(t, err)

	_, _, err = NewTokenManager("secret-b", time.Hour).Parse(signed)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestTokenExpiredRejected(t *testing.T) {
	tokens := NewTokenManager("test-secret", -time.Minute)
	signed, _, err := tokens.Generate(User{ID: uuid.New()})
	require.NoError(t, err)

	_, _, err = tokens.Parse(signed)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestDenylistRevoke(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	denylist := NewDenylist(client)
	ctx := context.Background()

	revoked, err := denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "token-1", time.Now().Add(time.Hour)))

	revoked, err = denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	require.True(t, revoked)

	// Entries expire with the token itself.
	mr.FastForward(2 * time.Hour)
	revoked, err = denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	denylist := NewDenylist(client)
	require.NoError(t, denylist.Revoke(context.Background(), "stale", time.Now().Add(-time.Minute)))
	require.Zero(t, len(mr.Keys()))
}

var errUserNotFound = fmt.Errorf("auth: user: %w", httpx.ErrNotFound)

type memoryUserRepo struct {
	users map[string]User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, user User) (User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.Email] = user
	return user, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	user, ok := r.users[email]
	if !ok {
		return User{}, errUserNotFound
	}
	return user, nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, errUserNotFound
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc := NewService(newMemoryUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "dev@example.com", "Dev", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dev@example.com", "Other Dev", "hunter2hunter2")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newMemoryUserRepo())
	ctx := context.Background()

	created, err := svc.Register(ctx, "dev@example.com", "Dev", "hunter2hunter2")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "dev@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate(ctx, "dev@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
