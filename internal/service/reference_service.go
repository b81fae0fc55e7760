package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

const countriesCacheKey = "reference:countries"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type countriesGateway interface {
	Countries(ctx context.Context) ([]models.Country, error)
}

type cacheRecorder interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// ReferenceService serves slow-changing reference data such as the country
// and city list, cached in Redis when a cache is configured.
type ReferenceService struct {
	gw      countriesGateway
	cache   CacheRepository
	metrics cacheRecorder
	ttl     time.Duration
	logger  *zap.Logger
}

// NewReferenceService constructs the service. cache may be nil.
func NewReferenceService(gw countriesGateway, cache CacheRepository, metrics cacheRecorder, ttl time.Duration, logger *zap.Logger) *ReferenceService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{gw: gw, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Countries returns the countries with their cities. Cache failures fall
// through to the backend.
func (s *ReferenceService) Countries(ctx context.Context) ([]models.Country, error) {
	if s.cache != nil {
		var cached []models.Country
		start := time.Now()
		err := s.cache.Get(ctx, countriesCacheKey, &cached)
		hit := err == nil
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(hit, time.Since(start))
		}
		if hit {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("countries cache read failed", zap.Error(err))
		}
	}

	countries, err := s.gw.Countries(ctx)
	if err != nil {
		return nil, err
	}
	if countries == nil {
		countries = []models.Country{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, countriesCacheKey, countries, s.ttl); err != nil {
			s.logger.Warn("countries cache write failed", zap.Error(err))
		}
	}
	return countries, nil
}

// Invalidate drops cached reference data.
func (s *ReferenceService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, countriesCacheKey)
}
