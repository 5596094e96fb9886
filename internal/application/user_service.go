package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/social-feed/internal/domain/apperr"
	"github.com/oksasatya/social-feed/internal/domain/entity"
	repo "github.com/oksasatya/social-feed/internal/domain/repository"
)

type UserService struct {
	Users    repo.UserRepository
	Identity repo.IdentityProvider
	Search   UserSearcher
	Index    UserIndex
	Logger   *logrus.Logger
}

// NewUserService wires the service. A nil search falls back to the user
// repository; a nil index disables index maintenance.
func NewUserService(users repo.UserRepository, identity repo.IdentityProvider, search UserSearcher, index UserIndex, logger *logrus.Logger) *UserService {
	if search == nil {
		search = users
	}
	return &UserService{Users: users, Identity: identity, Search: search, Index: index, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return u, nil
}

// UpdateProfileInput carries the optional fields of a profile update; nil
// means unchanged.
type UpdateProfileInput struct {
	Email    *string
	Username *string
}

func (s *UserService) UpdateProfile(ctx context.Context, principal, userID string, in UpdateProfileInput) (*entity.User, error) {
	if principal != userID {
		return nil, fmt.Errorf("%w: cannot update another user's profile", apperr.ErrForbidden)
	}
	var email string
	if in.Email != nil {
		email = NormalizeEmail(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if in.Email != nil {
		u.Email = email
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, apperr.Store(err)
	}

	syncIndex(ctx, s.Index, s.Logger, u)
	return u, nil
}

// DeleteProfile removes the account together with its posts and comments and
// revokes every proof the user still holds.
func (s *UserService) DeleteProfile(ctx context.Context, principal, userID string) error {
	if principal != userID {
		return fmt.Errorf("%w: cannot delete another user's profile", apperr.ErrForbidden)
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		return apperr.Store(err)
	}

	if err := s.Identity.InvalidateAll(ctx, userID, ""); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("invalidate sessions failed")
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("es delete failed")
		}
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.UserSummary, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return users, nil
}

// SearchUsers returns the users whose email contains query, ignoring case.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]entity.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Invalid("query is required")
	}
	users, err := s.Search.SearchByEmail(ctx, query)
	if err != nil {
		s.Logger.WithError(err).Error("search users failed")
		return nil, apperr.Store(err)
	}
	if users == nil {
		users = []entity.UserSummary{}
	}
	return users, nil
}
