package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

const (
	pointsKeyPrefix = "ecoShopPoints"

	// ReceiptAward is the number of points granted per scanned receipt
	ReceiptAward = 10
)

// PointsService manages per-client point balances persisted in a state store
type PointsService struct {
	store  domain.StateStore
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewPointsService creates a points service
func NewPointsService(store domain.StateStore, logger zerolog.Logger) *PointsService {
	return &PointsService{
		store:  store,
		logger: logging.Component(logger, "points"),
	}
}

// Balance returns the client's current points
func (s *PointsService) Balance(ctx context.Context, clientID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, clientID)
}

// Add credits amount points. The balance saturates at math.MaxInt64.
func (s *PointsService) Add(ctx context.Context, clientID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	return s.update(ctx, clientID, func(balance int64) int64 {
		if amount > math.MaxInt64-balance {
			return math.MaxInt64
		}
		return balance + amount
	})
}

// Subtract debits amount points. The balance never drops below zero.
func (s *PointsService) Subtract(ctx context.Context, clientID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	return s.update(ctx, clientID, func(balance int64) int64 {
		return max(balance-amount, 0)
	})
}

// AwardReceipt credits ReceiptAward points for a scanned receipt
func (s *PointsService) AwardReceipt(ctx context.Context, clientID string) (int64, error) {
	return s.Add(ctx, clientID, ReceiptAward)
}

// Reset removes the stored balance
func (s *PointsService) Reset(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, pointsKey(clientID)); err != nil {
		return fmt.Errorf("reset points: %w", err)
	}
	return nil
}

func (s *PointsService) update(ctx context.Context, clientID string, fn func(int64) int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.load(ctx, clientID)
	if err != nil {
		return 0, err
	}

	balance = fn(balance)
	if err := s.store.Set(ctx, pointsKey(clientID), []byte(strconv.FormatInt(balance, 10))); err != nil {
		return 0, fmt.Errorf("save points: %w", err)
	}
	return balance, nil
}

// load reads the stored balance. Missing, unparsable or negative values read as zero.
func (s *PointsService) load(ctx context.Context, clientID string) (int64, error) {
	data, err := s.store.Get(ctx, pointsKey(clientID))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load points: %w", err)
	}

	balance, err := parsePoints(string(data))
	if err != nil {
		s.logger.Warn().Err(err).Str("client", clientID).Msg("unreadable points balance, treating as 0")
		return 0, nil
	}
	return balance, nil
}

// parsePoints reads a leading integer the way the browser client stored it ("42", "42.9")
func parsePoints(s string) (int64, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, err
	}
	return max(v, 0), nil
}

func pointsKey(clientID string) string {
	return pointsKeyPrefix + ":" + clientID
}
