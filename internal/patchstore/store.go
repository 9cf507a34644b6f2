// Package patchstore keeps per-patch fire-weather and fuel state for the
// streaming driver, bounded by an LRU policy.
package patchstore

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
)

// Observer receives store events. Any field may be nil.
type Observer struct {
	Lookup func(hit bool)
	Evict  func(patchID string)
	Size   func(n int)
}

// Store creates patches on first sight and steps them one day at a time.
// It is safe for concurrent use; calls on the same store are serialized.
type Store struct {
	params *domain.FireParameters
	types  []domain.FuelType
	logger *slog.Logger
	obs    Observer

	mu    sync.Mutex
	cache *lruCache
}

// New creates a store holding at most maxPatches patches.
func New(p *domain.FireParameters, types []domain.FuelType, maxPatches int, logger *slog.Logger, obs Observer) (*Store, error) {
	if p == nil {
		return nil, domain.ErrNilParameters
	}
	if maxPatches <= 0 {
		return nil, errors.New("patch store size must be positive")
	}
	// Validate the fuel types once so per-patch construction cannot fail on them.
	if _, err := domain.NewPatch("", p, types); err != nil {
		return nil, err
	}
	s := &Store{
		params: p,
		types:  append([]domain.FuelType(nil), types...),
		logger: logger,
		obs:    obs,
	}
	s.cache = newLRUCache(maxPatches, s.evicted)
	return s, nil
}

func (s *Store) evicted(pt *domain.Patch) {
	s.logger.Warn("patch evicted, fire weather restarts from zero", "patch_id", pt.ID())
	if s.obs.Evict != nil {
		s.obs.Evict(pt.ID())
	}
}

// Step advances patchID by one day, creating the patch if it is new. A
// failed step leaves any existing patch untouched and does not create one.
func (s *Store) Step(patchID string, in domain.DailyInput) (domain.DailyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, hit := s.cache.get(patchID)
	if s.obs.Lookup != nil {
		s.obs.Lookup(hit)
	}
	if !hit {
		var err error
		pt, err = domain.NewPatch(patchID, s.params, s.types)
		if err != nil {
			return domain.DailyResult{}, err
		}
	}

	res, err := pt.Step(in)
	if err != nil {
		return domain.DailyResult{}, err
	}
	if !hit {
		s.cache.put(patchID, pt)
		if s.obs.Size != nil {
			s.obs.Size(s.cache.len())
		}
	}
	return res, nil
}

// Weather returns the fire-weather state of a known patch.
func (s *Store) Weather(patchID string) (domain.WeatherSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, ok := s.cache.peek(patchID)
	if !ok {
		return domain.WeatherSnapshot{}, false
	}
	return pt.Weather(), true
}

// Len returns the number of patches held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.len()
}
