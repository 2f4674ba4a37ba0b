package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concert-ticketing/internal/models"
)

var userRowColumns = []string{"id", "display_name", "email", "phone", "created_date"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "Jane Doe", "jane@example.com", "+100", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := repo.Create(context.Background(), &models.UserRequest{
		DisplayName: "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "+100",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Jane Doe", user.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users WHERE id = \\$1").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow("u1", "Jane Doe", "jane@example.com", "", created))
	mock.ExpectQuery("FROM users WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req := &models.UserRequest{DisplayName: "Janet", Email: "janet@example.com"}

	mock.ExpectQuery("UPDATE users SET display_name = \\$2, email = \\$3, phone = \\$4 WHERE id = \\$1").
		WithArgs("u1", "Janet", "janet@example.com", "").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow("u1", "Janet", "janet@example.com", "", created))
	mock.ExpectQuery("UPDATE users").
		WithArgs("missing", "Janet", "janet@example.com", "").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.Update(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "Janet", user.DisplayName)

	_, err = repo.Update(context.Background(), "missing", req)
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
