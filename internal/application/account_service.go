package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
	repo "github.com/oksasatya/cornucopia-api/internal/domain/repository"
	"github.com/oksasatya/cornucopia-api/pkg/apperror"
	"github.com/oksasatya/cornucopia-api/pkg/helpers"
	"github.com/oksasatya/cornucopia-api/pkg/mailer"
	mailtpl "github.com/oksasatya/cornucopia-api/pkg/mailer/templates"
)

var errBadCredentials = apperror.Auth("invalid username or password")

// AccountService owns user records and the tokens issued for them. A token
// wraps the user's findHash; rotating the findHash revokes every older token.
type AccountService struct {
	Users     repo.UserRepository
	Profiles  repo.ProfileRepository
	Tokens    TokenIssuer
	Sessions  SessionCache
	Publisher Publisher
	Cascade   *CascadeDeleter
	Logger    *logrus.Logger

	TokenTTL        time.Duration
	MailSendEnabled bool
	AppName         string
	SupportURL      string
}

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a user and returns a bearer token for it.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return "", apperror.Validation("user validation failed: username, email and password required")
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return "", apperror.Internal("hash password", err)
	}
	findHash, err := helpers.GenerateFindHash()
	if err != nil {
		return "", apperror.Internal("generate find hash", err)
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           newID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FindHash:     findHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return "", storeErr(err, "user")
	}
	token, err := s.issue(ctx, u)
	if err != nil {
		return "", err
	}
	s.notify(ctx, u, mailtpl.Welcome)
	return token, nil
}

// Authenticate checks basic-auth credentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	if username == "" || password == "" {
		return nil, errBadCredentials
	}
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, storeErr(err, "user")
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, errBadCredentials
	}
	return u, nil
}

// Signin rotates the user's findHash and returns a fresh token. Tokens issued
// before the rotation stop resolving.
func (s *AccountService) Signin(ctx context.Context, u *entity.User) (string, error) {
	findHash, err := helpers.GenerateFindHash()
	if err != nil {
		return "", apperror.Internal("generate find hash", err)
	}
	old := u.FindHash
	updated, err := s.Users.Update(ctx, u.ID, entity.UserPatch{}, nil, &findHash)
	if err != nil {
		return "", storeErr(err, "user")
	}
	if s.Sessions != nil && old != "" {
		s.Sessions.Drop(ctx, old)
	}
	return s.issue(ctx, updated)
}

// ResolveToken maps a bearer token to the identity it was issued for.
func (s *AccountService) ResolveToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, apperror.Auth("missing bearer token")
	}
	findHash, err := s.Tokens.ParseToken(token)
	if err != nil || findHash == "" {
		return nil, apperror.Auth("invalid bearer token")
	}
	if s.Sessions != nil {
		if id, ok := s.Sessions.Get(ctx, findHash); ok {
			return id, nil
		}
	}
	u, err := s.Users.GetByFindHash(ctx, findHash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Auth("invalid bearer token")
		}
		return nil, storeErr(err, "user")
	}
	id := IdentityOf(u)
	if s.Sessions != nil {
		s.Sessions.Put(ctx, findHash, id, s.TokenTTL)
	}
	return &id, nil
}

// Update applies a partial change to the account. A new password is hashed
// before it is stored.
func (s *AccountService) Update(ctx context.Context, u *entity.User, patch entity.UserPatch) (*entity.User, error) {
	if patch.IsEmpty() {
		return nil, errNothingToUpdate
	}
	var hash *string
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, apperror.Validation("user validation failed: password required")
		}
		h, err := helpers.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperror.Internal("hash password", err)
		}
		hash = &h
	}
	if patch.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &e
	}
	updated, err := s.Users.Update(ctx, u.ID, patch, hash, nil)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if s.Sessions != nil {
		s.Sessions.Drop(ctx, u.FindHash)
	}
	return updated, nil
}

// Close deletes the account and, when there is one, its profile with all of
// its content.
func (s *AccountService) Close(ctx context.Context, u *entity.User) (*CascadeReport, error) {
	profileID := ""
	p, err := s.Profiles.GetByUserID(ctx, u.ID)
	switch {
	case err == nil:
		profileID = p.ID
	case !errors.Is(err, repo.ErrNotFound):
		return nil, storeErr(err, "profile")
	}
	report := s.Cascade.Run(ctx, profileID, u.Username)
	if err := report.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// userRemoved runs once the cascade has removed the user record.
func (s *AccountService) userRemoved(ctx context.Context, u *entity.User) {
	if s.Sessions != nil {
		s.Sessions.Drop(ctx, u.FindHash)
	}
	s.notify(ctx, u, mailtpl.AccountClosed)
}

func (s *AccountService) issue(ctx context.Context, u *entity.User) (string, error) {
	token, _, err := s.Tokens.GenerateToken(u.FindHash)
	if err != nil {
		return "", apperror.Internal("issue token", err)
	}
	if s.Sessions != nil {
		s.Sessions.Put(ctx, u.FindHash, IdentityOf(u), s.TokenTTL)
	}
	return token, nil
}

func (s *AccountService) notify(ctx context.Context, u *entity.User, kind string) {
	if !s.MailSendEnabled || s.Publisher == nil || u.Email == "" {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: kind,
		Data:     mailtpl.NewData(kind, s.AppName, u.Username, u.Email, mailtpl.WithSupportURL(s.SupportURL)),
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.log().WithError(err).WithFields(logrus.Fields{
			"user_id":  u.ID,
			"template": kind,
		}).Warn("enqueue email failed")
	}
}

func (s *AccountService) log() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func IdentityOf(u *entity.User) Identity {
	return Identity{UserID: u.ID, Username: u.Username, Email: u.Email}
}
