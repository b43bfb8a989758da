package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

const cartKeyPrefix = "ecoShopCart"

// CartService manages per-client carts persisted in a state store
type CartService struct {
	store  domain.StateStore
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewCartService creates a cart service
func NewCartService(store domain.StateStore, logger zerolog.Logger) *CartService {
	return &CartService{
		store:  store,
		logger: logging.Component(logger, "cart"),
	}
}

// Get returns the client's cart view
func (s *CartService) Get(ctx context.Context, clientID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return newCartView(items), nil
}

// AddItem adds product to the cart, or increments its quantity if already present
func (s *CartService) AddItem(ctx context.Context, clientID string, product domain.Product) (*domain.Cart, error) {
	if strings.TrimSpace(product.ID) == "" || strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: product id and name are required", domain.ErrInvalidRequest)
	}

	return s.mutate(ctx, clientID, func(items []domain.CartItem) ([]domain.CartItem, error) {
		for i := range items {
			if items[i].ID == product.ID {
				items[i].Quantity++
				return items, nil
			}
		}
		return append(items, domain.CartItem{
			ID:          product.ID,
			Name:        product.Name,
			Image:       product.Image,
			Price:       product.Price,
			Description: product.Description,
			SourceURL:   product.SourceURL,
			Quantity:    1,
		}), nil
	})
}

// RemoveItem deletes the item with id from the cart
func (s *CartService) RemoveItem(ctx context.Context, clientID, id string) (*domain.Cart, error) {
	return s.mutate(ctx, clientID, func(items []domain.CartItem) ([]domain.CartItem, error) {
		i := indexOfItem(items, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

// UpdateQuantity sets the quantity of item id. A quantity of zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, clientID, id string, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, clientID, func(items []domain.CartItem) ([]domain.CartItem, error) {
		i := indexOfItem(items, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		if quantity <= 0 {
			return append(items[:i], items[i+1:]...), nil
		}
		items[i].Quantity = quantity
		return items, nil
	})
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, clientID string) (*domain.Cart, error) {
	return s.mutate(ctx, clientID, func([]domain.CartItem) ([]domain.CartItem, error) {
		return []domain.CartItem{}, nil
	})
}

// mutate runs fn over the stored items and saves the result under the service lock
func (s *CartService) mutate(ctx context.Context, clientID string, fn func([]domain.CartItem) ([]domain.CartItem, error)) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	items, err = fn(items)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, clientID, items); err != nil {
		return nil, err
	}
	return newCartView(items), nil
}

// load reads the stored cart. Missing or unreadable state is an empty cart.
func (s *CartService) load(ctx context.Context, clientID string) ([]domain.CartItem, error) {
	data, err := s.store.Get(ctx, cartKey(clientID))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return []domain.CartItem{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn().Err(err).Str("client", clientID).Msg("discarding unreadable cart")
		return []domain.CartItem{}, nil
	}

	valid := items[:0]
	for _, item := range items {
		if item.ID != "" && item.Quantity >= 1 {
			valid = append(valid, item)
		}
	}
	return valid, nil
}

func (s *CartService) save(ctx context.Context, clientID string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.store.Set(ctx, cartKey(clientID), data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func cartKey(clientID string) string {
	return cartKeyPrefix + ":" + clientID
}

func indexOfItem(items []domain.CartItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// newCartView computes the total with decimal arithmetic, rounded to cents
func newCartView(items []domain.CartItem) *domain.Cart {
	if items == nil {
		items = []domain.CartItem{}
	}

	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}

	return &domain.Cart{
		Items:     items,
		Total:     total.Round(2).InexactFloat64(),
		ItemCount: count,
	}
}
