package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnarg/webshop-backend/pkg/config"
	"github.com/arnarg/webshop-backend/pkg/db"
	"github.com/arnarg/webshop-backend/pkg/db/models"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"github.com/arnarg/webshop-backend/pkg/security"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the users controller.
type Service interface {
	List(ctx context.Context, page pagination.Window) ([]UserDTO, error)
	Get(ctx context.Context, id int64) (*UserDTO, error)
	ChangeAdmin(ctx context.Context, callerID, targetID int64, admin bool) (*UserDTO, error)
	Me(ctx context.Context, userID int64) (*UserDTO, error)
	UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*UserDTO, error)
}

// UpdateMeRequest carries the optional self-service profile changes.
type UpdateMeRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, page pagination.Window) ([]models.User, error)
	SetAdmin(ctx context.Context, id int64, admin bool) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, email, passwordHash *string) (*models.User, error)
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(repo userRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) List(ctx context.Context, page pagination.Window) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromModel(user), nil
}

// ChangeAdmin flips the admin flag on the target user. Admins cannot change
// their own flag.
func (s *service) ChangeAdmin(ctx context.Context, callerID, targetID int64, admin bool) (*UserDTO, error) {
	if callerID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot change own admin flag")
	}

	user, err := s.repo.SetAdmin(ctx, targetID, admin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update admin flag")
	}
	return FromModel(user), nil
}

func (s *service) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	return s.Get(ctx, userID)
}

// UpdateMe partially updates the caller's email and/or password. Absent
// fields are left untouched.
func (s *service) UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*UserDTO, error) {
	if req.Email == nil && req.Password == nil {
		return nil, pkgerrors.Validation([]pkgerrors.FieldError{
			{Field: "body", Message: "at least one of email or password is required"},
		})
	}

	if fields := ValidateAccount(nil, req.Email, req.Password, true); len(fields) > 0 {
		return nil, pkgerrors.Validation(fields)
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		passwordHash = &hash
	}

	user, err := s.repo.UpdateProfile(ctx, userID, req.Email, passwordHash)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		case db.IsUniqueViolation(err, "uq_users_email"):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
		}
	}
	return FromModel(user), nil
}
