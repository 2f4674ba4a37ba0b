package repositories

import (
	"context"

	"github.com/pkg/errors"

	"concert-ticketing/internal/database"
	"concert-ticketing/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, req *models.UserRequest) (*models.User, error) {
	user := &models.User{
		ID:          newID(),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		CreatedDate: now(),
	}

	query := `
		INSERT INTO users (id, display_name, email, phone, created_date)
		VALUES (:id, :display_name, :email, :phone, :created_date)`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, display_name, email, phone, created_date
		FROM users
		WHERE id = $1`

	user := &models.User{}
	if err := r.db.GetContext(ctx, user, query, id); err != nil {
		return nil, notFoundOr(err, models.NotFoundf("user with id '%s' does not exist", id), "failed to get user")
	}
	return user, nil
}

// Update replaces the user's display name, email and phone.
func (r *UserRepository) Update(ctx context.Context, id string, req *models.UserRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET display_name = $2, email = $3, phone = $4
		WHERE id = $1
		RETURNING id, display_name, email, phone, created_date`

	user := &models.User{}
	if err := r.db.GetContext(ctx, user, query, id, req.DisplayName, req.Email, req.Phone); err != nil {
		return nil, notFoundOr(err, models.NotFoundf("user with id '%s' does not exist", id), "failed to update user")
	}
	return user, nil
}
