package store

import (
	"context"
	"errors"
	"time"

	model "gift-auctions/internal/models"
)

// Errors reported by store implementations for records the domain layer has
// no sentinel for. Domain-entity lookups use the auctionerrors sentinels.
var (
	// ErrLeaseNotFound is returned when no lease exists for a key.
	ErrLeaseNotFound = errors.New("lease not found")
	// ErrLeaseHeld is returned by PutLease when an unexpired lease for the
	// key is owned elsewhere. Lock acquisition treats it as "not acquired".
	ErrLeaseHeld = errors.New("lease held")
)

// Store is the persistence contract for the auction system. Any backend must
// provide two capabilities on top of plain find/sort/limit/count queries:
//
//   - single-record atomic compare-and-update: the balance operations
//     (HoldFunds, ChargeHeld, RefundHeld, Deposit), ExtendRound and PutLease
//     each check their predicate and apply their update in one round trip,
//     so a missed lock can never corrupt a record;
//   - multi-record atomic commit: WithTx runs a function whose writes all
//     commit together or not at all.
type Store interface {
	// Auctions
	CreateAuction(ctx context.Context, a *model.Auction) error
	GetAuction(ctx context.Context, id string) (model.Auction, error)
	ListAuctions(ctx context.Context) ([]model.Auction, error)
	UpdateAuction(ctx context.Context, a model.Auction) error
	// FindScheduledDue returns SCHEDULED auctions whose scheduled start time
	// is at or before now.
	FindScheduledDue(ctx context.Context, now time.Time) ([]model.Auction, error)
	// FindRoundsDue returns ACTIVE auctions whose round end time is at or
	// before now.
	FindRoundsDue(ctx context.Context, now time.Time) ([]model.Auction, error)
	// ExtendRound pushes the auction's round end time forward by the given
	// duration and increments its anti-sniping counter, in one conditional
	// update that applies only while the auction is ACTIVE, has a round end
	// time, and has extensions left. Reports whether the update applied.
	ExtendRound(ctx context.Context, auctionID string, by time.Duration) (model.Auction, bool, error)

	// Bids
	CreateBid(ctx context.Context, b *model.Bid) error
	UpdateBid(ctx context.Context, b model.Bid) error
	// ActiveBid returns the bidder's single ACTIVE bid in the auction, or
	// auctionerrors.ErrBidNotFound.
	ActiveBid(ctx context.Context, auctionID, bidderID string) (model.Bid, error)
	// TopActiveBids returns ACTIVE bids ordered by amount descending then
	// submission time ascending. A limit <= 0 means no limit.
	TopActiveBids(ctx context.Context, auctionID string, limit int) ([]model.Bid, error)
	CountActiveBids(ctx context.Context, auctionID string) (int, error)
	// CountBidsRankedAbove counts ACTIVE bids that outrank the given
	// (amount, createdAt) pair: strictly higher amount, or equal amount
	// submitted earlier.
	CountBidsRankedAbove(ctx context.Context, auctionID string, amount float64, createdAt time.Time) (int, error)
	// WonBids returns WON bids ordered by winning round ascending then
	// amount descending.
	WonBids(ctx context.Context, auctionID string) ([]model.Bid, error)
	BidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	BidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error)

	// Bidders
	CreateBidder(ctx context.Context, b *model.Bidder) error
	GetBidder(ctx context.Context, id string) (model.Bidder, error)
	GetBidders(ctx context.Context, ids []string) ([]model.Bidder, error)
	ListBidders(ctx context.Context) ([]model.Bidder, error)
	// HoldFunds moves amount from available to held iff available >= amount.
	HoldFunds(ctx context.Context, bidderID string, amount float64) (model.Bidder, error)
	// ChargeHeld removes amount from held iff held >= amount.
	ChargeHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error)
	// RefundHeld moves amount from held back to available iff held >= amount.
	RefundHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error)
	// Deposit adds amount to available.
	Deposit(ctx context.Context, bidderID string, amount float64) (model.Bidder, error)

	// Leases
	// PutLease records ownerID as the holder of key until expiresAt, but
	// only if no unexpired lease for key exists. ErrLeaseHeld otherwise.
	PutLease(ctx context.Context, key, ownerID string, expiresAt, now time.Time) error
	GetLease(ctx context.Context, key string) (model.Lease, error)
	// DeleteLease removes the lease only when ownerID matches; deleting a
	// lease owned elsewhere is a no-op.
	DeleteLease(ctx context.Context, key, ownerID string) error

	// WithTx runs fn against a transactional view of the store. Every write
	// fn performs commits atomically when fn returns nil and rolls back
	// entirely when it returns an error.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
