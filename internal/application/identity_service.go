package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	repo "github.com/oksasatya/recipe-share-api/internal/domain/repository"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
)

// IdentityService owns signup, login, self-removal and token resolution.
type IdentityService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Sessions *Sessions
	Notifier *Notifier
	Index    *RecipeIndex
	Logger   *logrus.Logger
}

func NewIdentityService(users repo.UserRepository, jwt *helpers.JWTManager, sessions *Sessions, notifier *Notifier, index *RecipeIndex, logger *logrus.Logger) *IdentityService {
	return &IdentityService{
		Repo:     users,
		JWT:      jwt,
		Sessions: sessions,
		Notifier: notifier,
		Index:    index,
		Logger:   logger,
	}
}

// RegisterInput is a signup request after binding.
type RegisterInput struct {
	Email    string
	Password string
	Username string
}

// UserView is the public shape of a user.
type UserView struct {
	ID       int64   `json:"id"`
	Username *string `json:"username"`
	Email    string  `json:"email"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	User      UserView  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`
}

func viewOf(u *entity.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email}
}

// NormalizeEmail lower-cases the domain part and leaves the local part alone.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	fields := map[string]string{}
	taken, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		fields["email"] = "user with this email already exists."
	}
	if username != "" {
		taken, err := s.Repo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			fields["username"] = "A user with that username already exists."
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash}
	if username != "" {
		u.Username = &username
	}
	switch err := s.Repo.Create(ctx, u); {
	case errors.Is(err, repo.ErrEmailTaken):
		return nil, fieldError("email", "user with this email already exists.")
	case errors.Is(err, repo.ErrUsernameTaken):
		return nil, fieldError("username", "A user with that username already exists.")
	case err != nil:
		return nil, err
	}

	res, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	signups.Add(1)
	s.Notifier.Welcome(ctx, u)
	return res, nil
}

func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidPassword
	}
	res, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	logins.Add(1)
	return res, nil
}

func (s *IdentityService) issue(ctx context.Context, u *entity.User) (*AuthResult, error) {
	sid, err := s.Sessions.Start(ctx, u)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("session start failed")
		}
		return nil, err
	}
	token, exp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, err
	}
	return &AuthResult{User: viewOf(u), Token: token, ExpiresAt: exp}, nil
}

// RemoveSelf deletes the caller. Recipes and favorites cascade in the store.
func (s *IdentityService) RemoveSelf(ctx context.Context, id entity.Identity) error {
	u, err := s.Repo.GetByID(ctx, id.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUnauthenticated
	}
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	if err := s.Sessions.End(ctx, u.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session cleanup failed")
	}
	err = s.Index.DeleteByOwner(ctx, u.ID)
	s.Index.warn(err, "es cleanup failed", logrus.Fields{"user_id": u.ID})
	s.Notifier.AccountRemoved(ctx, u)
	return nil
}

// ResolveSession turns a bearer token into the caller's identity.
func (s *IdentityService) ResolveSession(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if s.Sessions.Enabled() {
		id, err := s.Sessions.Resolve(ctx, claims.UserID, claims.SessionID)
		if err != nil && !errors.Is(err, ErrUnauthenticated) && s.Logger != nil {
			s.Logger.WithError(err).Warn("session lookup failed")
		}
		if err != nil {
			return nil, ErrUnauthenticated
		}
		return id, nil
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return &entity.Identity{UserID: u.ID, Email: u.Email, Username: u.DisplayName(), SessionID: claims.SessionID}, nil
}
