package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
	"github.com/oksasatya/social-feed/pkg/helpers"
	"github.com/oksasatya/social-feed/pkg/mailer"
)

const (
	minPasswordLen = 8
	// bcrypt ignores anything past 72 bytes.
	maxPasswordLen = 72
)

type AuthService struct {
	Users    repo.UserRepository
	Identity repo.IdentityProvider
	Index    UserIndex
	Mail     Publisher
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, identity repo.IdentityProvider, index UserIndex, mail Publisher, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Identity: identity, Index: index, Mail: mail, Logger: logger}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

// NormalizeEmail trims and lower-cases an email so lookups and the unique
// constraint agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Invalid("email is required")
	}
	if err := validate.Var(email, "email,max=254"); err != nil {
		return apperr.Invalid("email is malformed")
	}
	return nil
}

func validatePassword(field, pw string) error {
	switch {
	case pw == "":
		return apperr.Invalid("%s is required", field)
	case len(pw) < minPasswordLen:
		return apperr.Invalid("%s must be at least %d characters", field, minPasswordLen)
	case len(pw) > maxPasswordLen:
		return apperr.Invalid("%s must be at most %d bytes", field, maxPasswordLen)
	}
	return nil
}

// Register creates a user. Uniqueness of the email is left to the store's
// unique constraint so two concurrent registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := NormalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("hash password: %w", err))
	}
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if !errors.Is(err, apperr.ErrDuplicateIdentity) {
			s.Logger.WithError(err).WithField("email", email).Error("create user failed")
		}
		return nil, apperr.Store(err)
	}
	registrationsTotal.Add(1)

	syncIndex(ctx, s.Index, s.Logger, u)
	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": displayName(u)},
	})
	return u, nil
}

// Login verifies the credentials and issues a fresh proof. Unknown emails
// and wrong passwords fail with the same error and take the same time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, repo.Proof, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, repo.Proof{}, apperr.Invalid("email and password are required")
	}

	u, err := s.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		helpers.EqualizeTiming(password)
		return nil, repo.Proof{}, s.loginFailed(email)
	case err != nil:
		s.Logger.WithError(err).WithField("email", email).Error("lookup user failed")
		return nil, repo.Proof{}, apperr.Store(err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, repo.Proof{}, s.loginFailed(email)
	}

	proof, err := s.Identity.Issue(ctx, u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue proof failed")
		return nil, repo.Proof{}, apperr.Store(err)
	}
	loginsTotal.Add(1)
	return u, proof, nil
}

func (s *AuthService) loginFailed(email string) error {
	loginFailuresTotal.Add(1)
	s.Logger.WithField("email", email).Info("login failed")
	return apperr.ErrAuthenticationFailed
}

func (s *AuthService) Logout(ctx context.Context, proof string) error {
	return apperr.Store(s.Identity.Invalidate(ctx, proof))
}

type ChangePasswordInput struct {
	Current string
	New     string
}

// ChangePassword re-verifies the current password before replacing it. Every
// other proof of the principal is dropped; currentProof stays valid.
func (s *AuthService) ChangePassword(ctx context.Context, principal, userID, currentProof string, in ChangePasswordInput) error {
	if principal != userID {
		return fmt.Errorf("%w: cannot change another user's password", apperr.ErrForbidden)
	}
	if in.Current == "" {
		return apperr.Invalid("current_password is required")
	}
	if err := validatePassword("new_password", in.New); err != nil {
		return err
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return apperr.Store(err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, in.Current) {
		return fmt.Errorf("%w: current password does not match", apperr.ErrInvalidInput)
	}

	hash, err := helpers.HashPassword(in.New)
	if err != nil {
		return apperr.Store(fmt.Errorf("hash password: %w", err))
	}
	if err := s.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Store(err)
	}

	if err := s.Identity.InvalidateAll(ctx, userID, currentProof); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("invalidate sessions failed")
	}
	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplatePasswordChanged,
		Data:     map[string]any{"Name": displayName(u)},
	})
	return nil
}

func (s *AuthService) enqueue(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("enqueue email failed")
	}
}

func displayName(u *entity.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// syncIndex mirrors u into the search index. Index failures never fail the
// caller; the store stays the source of truth.
func syncIndex(ctx context.Context, index UserIndex, logger *logrus.Logger, u *entity.User) {
	if index == nil {
		return
	}
	if err := index.Index(ctx, u.Summary()); err != nil {
		logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}
