package ledger

import (
	"context"
	"fmt"
	"time"

	"gift-auctions/internal/auctionerrors"
	model "gift-auctions/internal/models"
	"gift-auctions/internal/store"
	"gift-auctions/utils"
)

// Service manages bidder accounts and their escrow balances. Every balance
// mutation goes through one of the store's conditional updates, so the
// available/held split stays consistent even without a lock: a hold, charge
// or refund that would push a balance negative is rejected at the store and
// leaves both sides untouched.
type Service struct {
	store store.Store
}

// NewService creates a ledger service over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateBidder registers a new bidder with an opening available balance.
func (s *Service) CreateBidder(ctx context.Context, username string, balance float64) (model.Bidder, error) {
	if username == "" {
		return model.Bidder{}, fmt.Errorf("ledger: %w - empty username", auctionerrors.ErrInvalidParams)
	}
	if balance < 0 {
		return model.Bidder{}, fmt.Errorf("ledger: %w - negative opening balance", auctionerrors.ErrInvalidAmount)
	}

	bidder := model.Bidder{
		BidderID:  utils.GenerateID(),
		Username:  username,
		Balance:   model.Balance{Available: balance, Held: 0},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateBidder(ctx, &bidder); err != nil {
		return model.Bidder{}, fmt.Errorf("ledger: failed to create bidder %q: %w", username, err)
	}
	return bidder, nil
}

// GetBidder returns a bidder by id.
func (s *Service) GetBidder(ctx context.Context, bidderID string) (model.Bidder, error) {
	if bidderID == "" {
		return model.Bidder{}, fmt.Errorf("ledger: %w - empty bidder ID", auctionerrors.ErrInvalidParams)
	}
	bidder, err := s.store.GetBidder(ctx, bidderID)
	if err != nil {
		return model.Bidder{}, fmt.Errorf("ledger: failed to get bidder %s: %w", bidderID, err)
	}
	return bidder, nil
}

// ListBidders returns all registered bidders.
func (s *Service) ListBidders(ctx context.Context) ([]model.Bidder, error) {
	bidders, err := s.store.ListBidders(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to list bidders: %w", err)
	}
	return bidders, nil
}

// Deposit adds funds to a bidder's available balance. It is the only
// operation that grows available+held.
func (s *Service) Deposit(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	if amount <= 0 {
		return model.Bidder{}, fmt.Errorf("ledger: %w - deposit of %.2f", auctionerrors.ErrInvalidAmount, amount)
	}
	bidder, err := s.store.Deposit(ctx, bidderID, amount)
	if err != nil {
		return model.Bidder{}, fmt.Errorf("ledger: failed to deposit for bidder %s: %w", bidderID, err)
	}
	return bidder, nil
}

// HoldFunds moves amount from available into escrow against a bid.
func (s *Service) HoldFunds(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	if amount <= 0 {
		return model.Bidder{}, fmt.Errorf("ledger: %w - hold of %.2f", auctionerrors.ErrInvalidAmount, amount)
	}
	bidder, err := s.store.HoldFunds(ctx, bidderID, amount)
	if err != nil {
		return model.Bidder{}, fmt.Errorf("ledger: failed to hold funds for bidder %s: %w", bidderID, err)
	}
	return bidder, nil
}

// Charge removes amount from escrow. Funds leave the ledger; this is the one
// operation that shrinks available+held.
func (s *Service) Charge(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	if amount <= 0 {
		return model.Bidder{}, fmt.Errorf("ledger: %w - charge of %.2f", auctionerrors.ErrInvalidAmount, amount)
	}
	bidder, err := s.store.ChargeHeld(ctx, bidderID, amount)
	if err != nil {
		return model.Bidder{}, fmt.Errorf("ledger: failed to charge bidder %s: %w", bidderID, err)
	}
	return bidder, nil
}

// Refund moves amount from escrow back to available.
func (s *Service) Refund(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	if amount <= 0 {
		return model.Bidder{}, fmt.Errorf("ledger: %w - refund of %.2f", auctionerrors.ErrInvalidAmount, amount)
	}
	bidder, err := s.store.RefundHeld(ctx, bidderID, amount)
	if err != nil {
		return model.Bidder{}, fmt.Errorf("ledger: failed to refund bidder %s: %w", bidderID, err)
	}
	return bidder, nil
}
