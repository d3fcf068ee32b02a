package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sol1corejz/greenmart/internal/badges"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/models"
	"github.com/sol1corejz/greenmart/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidListing  = errors.New("invalid listing")
	ErrProductNotFound = errors.New("product not found")
	ErrSoldOut         = errors.New("product sold out")
)

// AllCategories is the category filter value that matches every listing.
const AllCategories = "All"

//go:embed seed.yaml
var defaultSeed []byte

// LoadSeed decodes the listings in path, or the built-in listings when path is empty.
func LoadSeed(path string) ([]models.Product, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	var list []models.Product
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	return list, nil
}

type Filter struct {
	Category string
	MinPrice float64
	// MaxPrice of zero leaves the upper bound open.
	MaxPrice float64
}

func (f Filter) match(p models.Product) bool {
	if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

type Listings struct {
	Available []models.Product `json:"available"`
	SoldOut   []models.Product `json:"soldOut"`
}

// Listing is a new item offered for sale.
type Listing struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Weight      float64 `json:"weight"`
	Quantity    int     `json:"quantity"`
	SellerID    string  `json:"-"`
	SellerName  string  `json:"-"`
}

func (l Listing) validate() error {
	switch {
	case strings.TrimSpace(l.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidListing)
	case !knownCategory(l.Category):
		return fmt.Errorf("%w: unknown category %q", ErrInvalidListing, l.Category)
	case l.Price < 0:
		return fmt.Errorf("%w: negative price", ErrInvalidListing)
	case l.Weight < 0:
		return fmt.Errorf("%w: negative weight", ErrInvalidListing)
	case l.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidListing)
	}
	return nil
}

func knownCategory(c string) bool {
	_, ok := models.CategoryWeights[c]
	return ok
}

// Service keeps the product listings in the products record.
type Service struct {
	repo *storage.Repository
	seed []models.Product

	mu     sync.Mutex
	seeded bool

	now func() time.Time
}

func NewService(repo *storage.Repository, seed []models.Product) *Service {
	return &Service{repo: repo, seed: seed, now: time.Now}
}

func (s *Service) seedCopy() []models.Product {
	out := make([]models.Product, len(s.seed))
	copy(out, s.seed)
	return out
}

// ensureSeeded writes the seed listings when no products record exists yet.
func (s *Service) ensureSeeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seeded {
		return nil
	}

	err := s.repo.UpdateProducts(ctx, func(list []models.Product) ([]models.Product, error) {
		if list != nil {
			return list, nil
		}
		logger.Log.Info("Seeding product listings", zap.Int("count", len(s.seed)))
		return s.seedCopy(), nil
	})
	if err != nil {
		return err
	}

	s.seeded = true
	return nil
}

// update applies fn to the seeded listings as one serialized write.
func (s *Service) update(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error {
	if err := s.ensureSeeded(ctx); err != nil {
		return err
	}
	return s.repo.UpdateProducts(ctx, func(list []models.Product) ([]models.Product, error) {
		if list == nil {
			list = []models.Product{}
		}
		return fn(list)
	})
}

func (s *Service) List(ctx context.Context, f Filter) (Listings, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return Listings{}, err
	}

	list, _, err := s.repo.Products(ctx)
	if err != nil {
		return Listings{}, err
	}

	out := Listings{Available: []models.Product{}, SoldOut: []models.Product{}}
	for _, p := range list {
		if !f.match(p) {
			continue
		}
		if p.Quantity > 0 {
			out.Available = append(out.Available, p)
		} else {
			out.SoldOut = append(out.SoldOut, p)
		}
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Product, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return models.Product{}, err
	}

	list, _, err := s.repo.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}

	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Create validates l and appends it as a new listing with eco impact derived from
// its weight. A zero weight falls back to the category average.
func (s *Service) Create(ctx context.Context, l Listing) (models.Product, error) {
	if err := l.validate(); err != nil {
		return models.Product{}, err
	}

	weight := l.Weight
	if weight == 0 {
		weight = models.CategoryWeights[l.Category]
	}

	p := models.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(l.Name),
		Category:    l.Category,
		Description: l.Description,
		Price:       l.Price,
		Weight:      weight,
		Quantity:    l.Quantity,
		EcoImpact:   badges.CalculateEcoImpact(weight),
		SellerID:    l.SellerID,
		SellerName:  l.SellerName,
		CreatedAt:   s.now().UTC(),
	}

	err := s.update(ctx, func(list []models.Product) ([]models.Product, error) {
		return append(list, p), nil
	})
	if err != nil {
		return models.Product{}, err
	}

	logger.Log.Info("Listing created", zap.String("id", p.ID), zap.String("category", p.Category))
	return p, nil
}

// Purchase takes one unit of listing id off the shelf and returns the listing
// as it was sold.
func (s *Service) Purchase(ctx context.Context, id string) (models.Product, error) {
	var sold models.Product

	err := s.update(ctx, func(list []models.Product) ([]models.Product, error) {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if list[i].Quantity <= 0 {
				return nil, ErrSoldOut
			}
			list[i].Quantity--
			sold = list[i]
			return list, nil
		}
		return nil, ErrProductNotFound
	})
	if err != nil {
		return models.Product{}, err
	}

	return sold, nil
}

// Restock puts one unit of listing id back, undoing a Purchase that could not be recorded.
func (s *Service) Restock(ctx context.Context, id string) error {
	return s.update(ctx, func(list []models.Product) ([]models.Product, error) {
		for i := range list {
			if list[i].ID == id {
				list[i].Quantity++
				return list, nil
			}
		}
		return nil, ErrProductNotFound
	})
}
