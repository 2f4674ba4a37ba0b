package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"concert-ticketing/internal/cache"
	"concert-ticketing/internal/models"
)

// UpcomingConcertsTTL is how long a catalog snapshot is served before the
// durable store is consulted again.
const UpcomingConcertsTTL = time.Hour

// ConcertSource is the durable concert store behind the cache.
type ConcertSource interface {
	GetUpcoming(ctx context.Context, count int) ([]*models.Concert, error)
	GetByID(ctx context.Context, id string) (*models.Concert, error)
	Create(ctx context.Context, req *models.ConcertRequest) (*models.Concert, error)
	Update(ctx context.Context, id string, req *models.ConcertUpdateRequest) (*models.Concert, error)
	Delete(ctx context.Context, id string) error
}

// CachedConcertRepository serves upcoming-concert listings from a Redis
// snapshot and drops the snapshot whenever the catalog changes.
type CachedConcertRepository struct {
	source ConcertSource
	store  *cache.Store
	ttl    time.Duration
}

func NewCachedConcertRepository(source ConcertSource, store *cache.Store) *CachedConcertRepository {
	return &CachedConcertRepository{source: source, store: store, ttl: UpcomingConcertsTTL}
}

// GetUpcoming answers from the cached snapshot when it holds at least count
// concerts. Otherwise it queries the durable store and replaces the snapshot.
// The snapshot is not re-filtered, so a concert may be listed up to one TTL
// after it started.
func (r *CachedConcertRepository) GetUpcoming(ctx context.Context, count int) ([]*models.Concert, error) {
	if count <= 0 {
		return []*models.Concert{}, nil
	}

	var snapshot []*models.Concert
	found, err := r.store.GetJSON(ctx, cache.UpcomingConcertsKey, &snapshot)
	if err != nil {
		log.WithError(err).Warn("Concert cache unavailable, reading from database")
	}
	if found && len(snapshot) >= count {
		return snapshot[:count], nil
	}

	concerts, err := r.source.GetUpcoming(ctx, count)
	if err != nil {
		return nil, err
	}

	if err := r.store.SetJSON(ctx, cache.UpcomingConcertsKey, concerts, r.ttl); err != nil {
		log.WithError(err).Warn("Failed to store upcoming concerts snapshot")
	}
	return concerts, nil
}

func (r *CachedConcertRepository) GetByID(ctx context.Context, id string) (*models.Concert, error) {
	return r.source.GetByID(ctx, id)
}

func (r *CachedConcertRepository) Create(ctx context.Context, req *models.ConcertRequest) (*models.Concert, error) {
	concert, err := r.source.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return concert, r.invalidate(ctx)
}

func (r *CachedConcertRepository) Update(ctx context.Context, id string, req *models.ConcertUpdateRequest) (*models.Concert, error) {
	concert, err := r.source.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return concert, r.invalidate(ctx)
}

func (r *CachedConcertRepository) Delete(ctx context.Context, id string) error {
	if err := r.source.Delete(ctx, id); err != nil {
		return err
	}
	return r.invalidate(ctx)
}

func (r *CachedConcertRepository) invalidate(ctx context.Context) error {
	if err := r.store.Delete(ctx, cache.UpcomingConcertsKey); err != nil {
		return errors.Wrap(err, "failed to invalidate upcoming concerts")
	}
	return nil
}
