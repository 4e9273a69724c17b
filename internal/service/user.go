package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/lib/job"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

// UserStore is the subset of the users repository the service needs.
type UserStore interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
}

// TokenStore is the subset of the tokens repository the service needs.
type TokenStore interface {
	Replace(ctx context.Context, userID int64, key string) error
	GetUserByKey(ctx context.Context, key string) (model.User, error)
}

// UserService covers registration, credential checks, token issuance,
// and profile updates.
type UserService struct {
	server *server.Server
	users  UserStore
	tokens TokenStore
}

func NewUserService(s *server.Server, users UserStore, tokens TokenStore) *UserService {
	return &UserService{
		server: s,
		users:  users,
		tokens: tokens,
	}
}

var errInvalidCredentials = errs.NewBadRequestError(
	"Unable to authenticate with provided credentials",
	false,
	strPtr("INVALID_CREDENTIALS"),
	nil,
	nil,
)

func strPtr(s string) *string { return &s }

// NormalizeEmail lowercases the domain part of an email address. The
// local part is kept as entered since mail servers may treat it
// case-sensitively.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates a regular account and enqueues the welcome email.
func (s *UserService) Register(ctx context.Context, email, password, name string) (model.User, error) {
	user, err := s.create(ctx, email, password, name, false)
	if err != nil {
		return model.User{}, err
	}

	task, err := job.NewWelcomeEmailTask(user.Email, user.Name)
	if err == nil {
		if _, err := s.server.Job.Client.EnqueueContext(ctx, task); err != nil {
			s.server.Logger.Warn().Err(err).Str("email", user.Email).Msg("failed to enqueue welcome email")
		}
	}

	return user, nil
}

// CreateSuperuser creates an account with staff and superuser flags
// set. Used by the createsuperuser command, not exposed over HTTP.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password, name string) (model.User, error) {
	return s.create(ctx, email, password, name, true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, super bool) (model.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return model.User{}, errs.NewBadRequestError("User must have an email address", false, nil, nil, nil)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	return s.users.Create(ctx, model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsStaff:      super,
		IsSuperuser:  super,
	})
}

// Authenticate checks an email and password pair and returns the user.
// Failures are indistinguishable between unknown email and wrong
// password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return model.User{}, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, errInvalidCredentials
	}

	return user, nil
}

// IssueToken rotates the user's API token and returns the new key.
// The key is 40 hex characters, 20 bytes of entropy.
func (s *UserService) IssueToken(ctx context.Context, userID int64) (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	key := hex.EncodeToString(raw)

	if err := s.tokens.Replace(ctx, userID, key); err != nil {
		return "", err
	}

	return key, nil
}

// AuthenticateToken resolves a token key to its user, consulting the
// Redis cache first. Cache entries expire after Auth.CacheTTL, which
// bounds how long a rotated token keeps working.
func (s *UserService) AuthenticateToken(ctx context.Context, key string) (model.User, error) {
	cacheKey := "token:" + key

	if s.server.Redis != nil {
		cached, err := s.server.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var user model.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return user, nil
			}
		} else if err != redis.Nil {
			s.server.Logger.Warn().Err(err).Msg("token cache lookup failed")
		}
	}

	user, err := s.tokens.GetUserByKey(ctx, key)
	if err != nil {
		return model.User{}, errs.NewUnauthorizedError("Invalid authentication token", true)
	}

	if s.server.Redis != nil {
		if payload, err := json.Marshal(user); err == nil {
			if err := s.server.Redis.Set(ctx, cacheKey, payload, s.server.Config.Auth.CacheTTL).Err(); err != nil {
				s.server.Logger.Warn().Err(err).Msg("token cache store failed")
			}
		}
	}

	return user, nil
}

// ProfileUpdate carries the fields a user may change on their own
// account. Nil fields are left untouched.
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// UpdateProfile applies a partial update to the user's own account.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if update.Email != nil {
		email := NormalizeEmail(*update.Email)
		if email == "" {
			return model.User{}, errs.NewBadRequestError("User must have an email address", false, nil, nil, nil)
		}
		user.Email = email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Password != nil {
		hash, err := HashPassword(*update.Password)
		if err != nil {
			return model.User{}, err
		}
		user.PasswordHash = hash
	}

	return s.users.Update(ctx, user)
}
