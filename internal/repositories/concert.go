package repositories

import (
	"context"

	"github.com/pkg/errors"

	"concert-ticketing/internal/database"
	"concert-ticketing/internal/models"
)

const concertColumns = `id, is_visible, artist, genre, location, title, description, price, start_time,
		created_on, created_by, updated_on, updated_by`

// ConcertRepository reads and writes the concert catalog in Postgres.
type ConcertRepository struct {
	db *database.DB
}

func NewConcertRepository(db *database.DB) *ConcertRepository {
	return &ConcertRepository{db: db}
}

// GetUpcoming returns at most count visible concerts that have not started
// yet, soonest first.
func (r *ConcertRepository) GetUpcoming(ctx context.Context, count int) ([]*models.Concert, error) {
	query := `
		SELECT ` + concertColumns + `
		FROM concerts
		WHERE is_visible AND start_time > $1
		ORDER BY start_time ASC
		LIMIT $2`

	concerts := []*models.Concert{}
	if err := r.db.SelectContext(ctx, &concerts, query, now(), count); err != nil {
		return nil, errors.Wrap(err, "failed to get upcoming concerts")
	}
	return concerts, nil
}

func (r *ConcertRepository) GetByID(ctx context.Context, id string) (*models.Concert, error) {
	query := `SELECT ` + concertColumns + ` FROM concerts WHERE id = $1`

	concert := &models.Concert{}
	if err := r.db.GetContext(ctx, concert, query, id); err != nil {
		return nil, notFoundOr(err, concertNotFound(id), "failed to get concert")
	}
	return concert, nil
}

func (r *ConcertRepository) Create(ctx context.Context, req *models.ConcertRequest) (*models.Concert, error) {
	ts := now()
	concert := &models.Concert{
		ID:          newID(),
		IsVisible:   req.IsVisible,
		Artist:      req.Artist,
		Genre:       req.Genre,
		Location:    req.Location,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		StartTime:   req.StartTime.UTC(),
		CreatedOn:   ts,
		UpdatedOn:   ts,
	}

	query := `
		INSERT INTO concerts (` + concertColumns + `)
		VALUES (:id, :is_visible, :artist, :genre, :location, :title, :description, :price, :start_time,
		        :created_on, :created_by, :updated_on, :updated_by)`

	if _, err := r.db.NamedExecContext(ctx, query, concert); err != nil {
		return nil, errors.Wrap(err, "failed to create concert")
	}
	return concert, nil
}

// Update changes the start time and price of a concert.
func (r *ConcertRepository) Update(ctx context.Context, id string, req *models.ConcertUpdateRequest) (*models.Concert, error) {
	query := `
		UPDATE concerts
		SET start_time = $2, price = $3, updated_on = $4
		WHERE id = $1
		RETURNING ` + concertColumns

	concert := &models.Concert{}
	if err := r.db.GetContext(ctx, concert, query, id, req.StartTime.UTC(), req.Price, now()); err != nil {
		return nil, notFoundOr(err, concertNotFound(id), "failed to update concert")
	}
	return concert, nil
}

func (r *ConcertRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM concerts WHERE id = $1`, id)
	if err != nil {
		// Issued tickets pin their concert.
		if database.IsForeignKeyViolation(err) {
			return models.InvalidOperationf("concert '%s' has issued tickets", id)
		}
		return errors.Wrap(err, "failed to delete concert")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return concertNotFound(id)
	}
	return nil
}

func concertNotFound(id string) error {
	return models.NotFoundf("concert with id '%s' does not exist", id)
}
