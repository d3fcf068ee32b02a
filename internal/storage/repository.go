package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/models"
	"go.uber.org/zap"
	"sync"
)

// Stable record names of the durable layout.
const (
	CredentialsKey = "userCredentials"
	StatsKey       = "userStats"
	ProductsKey    = "products"
)

// Repository reads and writes the credential, statistics and product records.
// Every write rewrites the whole record it touches, so writes are serialized.
type Repository struct {
	kv KV
	mu sync.Mutex
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

func (r *Repository) KV() KV {
	return r.kv
}

// load decodes the record under key into dst. A missing key leaves dst untouched
// and reports found=false; undecodable content is reported as ErrStorageCorrupted.
func (r *Repository) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrStorageCorrupted, key, err)
	}

	return true, nil
}

func (r *Repository) store(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, key, raw)
}

// reset overwrites a corrupted record with its empty value.
func (r *Repository) reset(ctx context.Context, key string, empty any, cause error) error {
	logger.Log.Warn("Resetting corrupted record", zap.String("name", key), zap.Error(cause))
	return r.store(ctx, key, empty)
}

func (r *Repository) credentials(ctx context.Context) ([]models.Credential, error) {
	var list []models.Credential

	_, err := r.load(ctx, CredentialsKey, &list)
	if errors.Is(err, ErrStorageCorrupted) {
		return []models.Credential{}, r.reset(ctx, CredentialsKey, []models.Credential{}, err)
	}
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Credentials returns every stored credential in insertion order.
func (r *Repository) Credentials(ctx context.Context) ([]models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.credentials(ctx)
}

func (r *Repository) FindCredential(ctx context.Context, email string) (models.Credential, bool, error) {
	list, err := r.Credentials(ctx)
	if err != nil {
		return models.Credential{}, false, err
	}

	for _, c := range list {
		if c.Email == email {
			return c, true, nil
		}
	}

	return models.Credential{}, false, nil
}

// AddCredential appends c to the credential list.
func (r *Repository) AddCredential(ctx context.Context, c models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.credentials(ctx)
	if err != nil {
		return err
	}

	return r.store(ctx, CredentialsKey, append(list, c))
}

func (r *Repository) statsMap(ctx context.Context) (map[string]models.UserStats, error) {
	var stats map[string]models.UserStats

	_, err := r.load(ctx, StatsKey, &stats)
	if errors.Is(err, ErrStorageCorrupted) {
		return map[string]models.UserStats{}, r.reset(ctx, StatsKey, map[string]models.UserStats{}, err)
	}
	if err != nil {
		return nil, err
	}

	if stats == nil {
		stats = map[string]models.UserStats{}
	}

	return stats, nil
}

// LoadStats returns the statistics stored for email, or zero statistics when
// there are none.
func (r *Repository) LoadStats(ctx context.Context, email string) (models.UserStats, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, err := r.statsMap(ctx)
	if err != nil {
		return models.UserStats{}, false, err
	}

	s, ok := stats[email]
	return s, ok, nil
}

// SaveStats stores s under email, leaving other accounts untouched.
func (r *Repository) SaveStats(ctx context.Context, email string, s models.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, err := r.statsMap(ctx)
	if err != nil {
		return err
	}

	stats[email] = s
	return r.store(ctx, StatsKey, stats)
}

// Products returns the stored listings; found is false when no listing record exists yet.
func (r *Repository) Products(ctx context.Context) ([]models.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []models.Product

	found, err := r.load(ctx, ProductsKey, &list)
	if errors.Is(err, ErrStorageCorrupted) {
		return nil, false, r.reset(ctx, ProductsKey, []models.Product{}, err)
	}
	if err != nil {
		return nil, false, err
	}

	return list, found, nil
}

func (r *Repository) SaveProducts(ctx context.Context, list []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if list == nil {
		list = []models.Product{}
	}
	return r.store(ctx, ProductsKey, list)
}

// UpdateProducts applies fn to the stored listings and writes the result back
// as one serialized step. Nothing is written when fn fails.
func (r *Repository) UpdateProducts(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var list []models.Product
	if _, err := r.load(ctx, ProductsKey, &list); err != nil {
		if !errors.Is(err, ErrStorageCorrupted) {
			return err
		}
		list = nil
	}

	next, err := fn(list)
	if err != nil {
		return err
	}

	return r.store(ctx, ProductsKey, next)
}
