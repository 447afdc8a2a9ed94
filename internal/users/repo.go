package users

import (
	"context"

	"github.com/arnarg/webshop-backend/internal/repo"
	"github.com/arnarg/webshop-backend/pkg/db/models"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users ordered by id.
func (r *Repository) List(ctx context.Context, page pagination.Window) ([]models.User, error) {
	var out []models.User
	query := r.DB(ctx).Model(&models.User{}).Order("id ASC")
	if err := page.Scope(query).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetAdmin flips the admin flag and returns the updated row.
func (r *Repository) SetAdmin(ctx context.Context, id int64, admin bool) (*models.User, error) {
	var user models.User
	if err := r.ConditionalUpdate(ctx, &user, id, []string{"admin"}, []any{admin}); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile partially updates email and/or password hash. Nil pointers
// leave the column untouched.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, email, passwordHash *string) (*models.User, error) {
	var emailVal, hashVal any
	if email != nil {
		emailVal = *email
	}
	if passwordHash != nil {
		hashVal = *passwordHash
	}

	var user models.User
	err := r.ConditionalUpdate(ctx, &user, id,
		[]string{"email", "password_hash"},
		[]any{emailVal, hashVal})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
