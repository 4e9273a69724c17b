package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/raffihq/recipe-api/internal/config"
	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/lib/job"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

type fakeUserStore struct {
	nextID int64
	byID   map[int64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[int64]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("table:users: no rows")
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, fmt.Errorf("table:users: no rows")
	}
	return u, nil
}

func (f *fakeUserStore) Update(_ context.Context, user model.User) (model.User, error) {
	f.byID[user.ID] = user
	return user, nil
}

type fakeTokenStore struct {
	keys    map[int64]string
	lookups int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{keys: map[int64]string{}}
}

func (f *fakeTokenStore) Replace(_ context.Context, userID int64, key string) error {
	f.keys[userID] = key
	return nil
}

func (f *fakeTokenStore) GetUserByKey(_ context.Context, key string) (model.User, error) {
	f.lookups++
	for userID, k := range f.keys {
		if k == key {
			return model.User{ID: userID, Email: "cached@example.com"}, nil
		}
	}
	return model.User{}, fmt.Errorf("table:auth_tokens: no rows")
}

func newTestUserService(t *testing.T) (*UserService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()

	mini := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: mini.Addr()})
	t.Cleanup(func() { _ = asynqClient.Close() })

	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Auth: config.AuthConfig{CacheTTL: time.Minute},
		},
		Logger: &log,
		Redis:  redisClient,
		Job:    &job.JobService{Client: asynqClient},
	}

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	return NewUserService(s, users, tokens), users, tokens
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
		{"  padded@Example.Com  ", "padded@example.com"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeEmail(tc.in), "input %q", tc.in)
	}
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, users, _ := newTestUserService(t)

	user, err := svc.Register(context.Background(), "new@EXAMPLE.com", "testpass123", "Test")
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", user.Email)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)

	stored := users.byID[user.ID]
	assert.NotEqual(t, "testpass123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("testpass123")))
}

func TestRegisterRequiresEmail(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), "   ", "testpass123", "Test")

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestCreateSuperuserSetsFlags(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	user, err := svc.CreateSuperuser(context.Background(), "admin@example.com", "testpass123", "Admin")
	require.NoError(t, err)

	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), "login@example.com", "testpass123", "Test")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "login@EXAMPLE.com", "testpass123")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", user.Email)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), "login@example.com", "testpass123", "Test")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "login@example.com", "wrong")

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", httpErr.Code)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

var tokenKeyPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestIssueTokenFormatAndRotation(t *testing.T) {
	svc, _, tokens := newTestUserService(t)

	first, err := svc.IssueToken(context.Background(), 42)
	require.NoError(t, err)
	assert.Regexp(t, tokenKeyPattern, first)
	assert.Equal(t, first, tokens.keys[42])

	second, err := svc.IssueToken(context.Background(), 42)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, tokens.keys[42])
}

func TestAuthenticateTokenCachesLookups(t *testing.T) {
	svc, _, tokens := newTestUserService(t)

	key, err := svc.IssueToken(context.Background(), 42)
	require.NoError(t, err)

	user, err := svc.AuthenticateToken(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, 1, tokens.lookups)

	// Second lookup is served from Redis.
	user, err = svc.AuthenticateToken(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, 1, tokens.lookups)
}

func TestAuthenticateTokenInvalidKey(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.AuthenticateToken(context.Background(), "bogus")

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, users, _ := newTestUserService(t)

	user, err := svc.Register(context.Background(), "old@example.com", "testpass123", "Old Name")
	require.NoError(t, err)

	name := "New Name"
	password := "newpass456"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{
		Name:     &name,
		Password: &password,
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "old@example.com", updated.Email)

	stored := users.byID[user.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass456")))
}
