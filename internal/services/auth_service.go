package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare/engine/internal/validators"
	"github.com/foodshare/engine/internal/auth"
	"github.com/foodshare/engine/internal/models"
	"github.com/foodshare/engine/internal/repository"
	appErr "github.com/foodshare/engine/pkg/errors"
	"github.com/foodshare/engine/pkg/logger"
)

type AuthService interface {
	// Signup creates a user of the given role and its profile atomically.
	Signup(ctx context.Context, role models.Role, in *SignupInput) (*models.User, error)
	// Login checks credentials against the given role and issues a token.
	Login(ctx context.Context, role models.Role, username, password string) (*Session, error)
	// Authenticate verifies a bearer token and returns the caller behind it.
	Authenticate(ctx context.Context, token string) (Caller, *auth.Claims, error)
	// Logout revokes the token described by claims until it would expire.
	Logout(ctx context.Context, claims *auth.Claims) error
}

type SignupInput struct {
	Username        string `json:"username" validate:"required,max=150,username"`
	Email           string `json:"email" validate:"required,max=254,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	MobileNumber    string `json:"mobile_number" validate:"required,max=15"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	denylist auth.Denylist
	validate *validator.Validate
	cost     int
	compare  func(hash, password []byte) error

	dummyOnce sync.Once
	dummy     []byte
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, denylist auth.Denylist) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		validate: validators.New(),
		cost:     bcrypt.DefaultCost,
		compare:  bcrypt.CompareHashAndPassword,
	}
}

// dummyHash is compared against on unknown usernames so both login failures
// cost one bcrypt comparison.
func (s *authService) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("foodshare-unknown-user"), s.cost)
	})
	return s.dummy
}

var _ AuthService = (*authService)(nil)

func invalidCredentials(role models.Role) error {
	return appErr.Unauthorized("invalid credentials or not a " + string(role) + " account")
}

func (s *authService) Signup(ctx context.Context, role models.Role, in *SignupInput) (*models.User, error) {
	if !role.Valid() {
		return nil, appErr.Validation("unknown role")
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, appErr.Validation(validators.Describe(err))
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(ph),
		Role:         role,
	}
	if err := s.users.CreateWithProfile(ctx, u, in.MobileNumber); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user signed up", zap.String("user_id", u.ID.String()), zap.String("role", string(role)))
	return u, nil
}

func (s *authService) Login(ctx context.Context, role models.Role, username, password string) (*Session, error) {
	if username == "" {
		return nil, appErr.Validation("username is required")
	}
	if password == "" {
		return nil, appErr.Validation("password is required")
	}

	var u models.User
	if err := s.users.GetByUsername(ctx, username, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			_ = s.compare(s.dummyHash(), []byte(password))
			return nil, invalidCredentials(role)
		}
		return nil, err
	}
	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials(role)
	}
	if u.Role != role {
		return nil, invalidCredentials(role)
	}

	token, claims, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue token failed")
	}

	logger.FromContext(ctx).Info("user logged in", zap.String("user_id", u.ID.String()), zap.String("role", string(u.Role)))
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: &u}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (Caller, *auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Caller{}, nil, appErr.Wrap(err, appErr.CodeUnauthorized, "invalid or expired token")
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Caller{}, nil, appErr.Wrap(err, appErr.CodeInternal, "check token revocation failed")
	}
	if revoked {
		return Caller{}, nil, appErr.Wrap(auth.ErrTokenRevoked, appErr.CodeUnauthorized, "session has been logged out")
	}
	uid, err := claims.UserID()
	if err != nil {
		return Caller{}, nil, appErr.Wrap(err, appErr.CodeUnauthorized, "invalid or expired token")
	}
	return Caller{UserID: uid, Role: claims.Role}, claims, nil
}

func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return appErr.Unauthorized("no active session")
	}
	if err := s.denylist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "revoke token failed")
	}
	logger.FromContext(ctx).Info("user logged out", zap.String("user_id", claims.Subject))
	return nil
}
