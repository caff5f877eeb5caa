package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gift-auctions/internal/auctionerrors"
	"gift-auctions/internal/locker"
	model "gift-auctions/internal/models"
	"gift-auctions/internal/store"
	"gift-auctions/utils"
)

// bidLockTTL bounds the per-(auction,bidder) raise lock. Raises are short;
// the TTL only matters when a holder dies mid-write.
const bidLockTTL = 10 * time.Second

// PlaceBidResult is what a successful bid placement reports back.
type PlaceBidResult struct {
	Bid                  model.Bid
	Rank                 int
	AntiSnipingTriggered bool
}

// BiddingService validates and records bids. A bidder holds at most one
// ACTIVE bid per auction; bidding again raises it in place, with only the
// delta moved into escrow. Raises from the same bidder are serialized by a
// lease keyed per (auction, bidder) so concurrent requests cannot lose an
// update on the bidder's own bid.
type BiddingService struct {
	store  store.Store
	locker *locker.LeaseLocker
	now    func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(st store.Store, lk *locker.LeaseLocker) *BiddingService {
	return &BiddingService{
		store:  st,
		locker: lk,
		now:    time.Now,
	}
}

// PlaceBid records a new bid or raises the bidder's existing one, holding
// the corresponding funds in the same transaction. It returns the bid, its
// rank within the auction, and whether anti-sniping extended the round.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (PlaceBidResult, error) {
	if auctionID == "" || bidderID == "" {
		return PlaceBidResult{}, fmt.Errorf("bidding: %w - missing auctionID or bidderID", auctionerrors.ErrInvalidParams)
	}
	if amount <= 0 {
		return PlaceBidResult{}, fmt.Errorf("bidding: %w - non-positive bid amount", auctionerrors.ErrInvalidAmount)
	}

	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return PlaceBidResult{}, fmt.Errorf("bidding: failed to load auction: %w", err)
	}
	if auction.Status != model.AuctionStatusActive {
		return PlaceBidResult{}, fmt.Errorf("bidding: %w - auction %s is %s", auctionerrors.ErrAuctionNotActive, auctionID, auction.Status)
	}
	if amount < auction.MinBid {
		return PlaceBidResult{}, fmt.Errorf("bidding: %w - minimum bid is %.2f", auctionerrors.ErrBidTooLow, auction.MinBid)
	}

	var result PlaceBidResult
	lockKey := fmt.Sprintf("bid:%s:%s", auctionID, bidderID)
	acquired, err := s.locker.WithLock(ctx, lockKey, bidLockTTL, func(ctx context.Context) error {
		bid, err := s.writeBid(ctx, auction, bidderID, amount)
		if err != nil {
			return err
		}

		triggered, err := s.evaluateAntiSniping(ctx, auctionID, amount)
		if err != nil {
			return err
		}

		rank, err := s.rank(ctx, bid)
		if err != nil {
			return err
		}

		result = PlaceBidResult{Bid: bid, Rank: rank, AntiSnipingTriggered: triggered}
		return nil
	})
	if err != nil {
		return PlaceBidResult{}, err
	}
	if !acquired {
		return PlaceBidResult{}, fmt.Errorf("bidding: %w - another bid from bidder %s is in flight", auctionerrors.ErrContended, bidderID)
	}

	utils.Info("bid placed", map[string]any{
		"auction_id": auctionID,
		"bidder_id":  bidderID,
		"amount":     amount,
		"rank":       result.Rank,
		"extended":   result.AntiSnipingTriggered,
	})
	return result, nil
}

// writeBid creates the bidder's first bid or raises the existing one. The
// fund hold and the bid write commit together or not at all.
func (s *BiddingService) writeBid(ctx context.Context, auction model.Auction, bidderID string, amount float64) (model.Bid, error) {
	existing, err := s.store.ActiveBid(ctx, auction.AuctionID, bidderID)
	switch {
	case err == nil:
		if amount <= existing.Amount {
			return model.Bid{}, fmt.Errorf("bidding: %w - current bid is %.2f", auctionerrors.ErrBidMustExceedCurrent, existing.Amount)
		}
		delta := amount - existing.Amount
		if delta < auction.MinBidIncrement {
			return model.Bid{}, fmt.Errorf("bidding: %w - minimum increment is %.2f", auctionerrors.ErrIncrementTooSmall, auction.MinBidIncrement)
		}

		existing.Amount = amount
		existing.Round = auction.CurrentRound
		txErr := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
			if _, err := tx.HoldFunds(ctx, bidderID, delta); err != nil {
				return err
			}
			return tx.UpdateBid(ctx, existing)
		})
		if txErr != nil {
			return model.Bid{}, fmt.Errorf("bidding: failed to raise bid for bidder %s: %w", bidderID, txErr)
		}
		return existing, nil

	case errors.Is(err, auctionerrors.ErrBidNotFound):
		bid := model.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auction.AuctionID,
			BidderID:  bidderID,
			Amount:    amount,
			Status:    model.BidStatusActive,
			Round:     auction.CurrentRound,
			CreatedAt: s.now().UTC(),
		}
		txErr := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
			if _, err := tx.HoldFunds(ctx, bidderID, amount); err != nil {
				return err
			}
			return tx.CreateBid(ctx, &bid)
		})
		if txErr != nil {
			return model.Bid{}, fmt.Errorf("bidding: failed to record bid for bidder %s: %w", bidderID, txErr)
		}
		return bid, nil

	default:
		return model.Bid{}, fmt.Errorf("bidding: failed to check existing bid: %w", err)
	}
}

// evaluateAntiSniping extends the round when a late bid lands in winning
// position. The cutoff is the weakest of the current top itemsPerRound
// bids, or zero while the round is undersubscribed. Bids below it cannot
// change the outcome and must not reset the clock.
func (s *BiddingService) evaluateAntiSniping(ctx context.Context, auctionID string, amount float64) (bool, error) {
	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return false, fmt.Errorf("bidding: failed to reload auction: %w", err)
	}
	if auction.RoundEndTime == nil {
		return false, nil
	}
	if auction.RoundEndTime.Sub(s.now()) > time.Duration(auction.AntiSnipingThreshold)*time.Second {
		return false, nil
	}
	if auction.AntiSnipingCount >= auction.MaxAntiSnipingExtensions {
		return false, nil
	}

	top, err := s.store.TopActiveBids(ctx, auctionID, auction.ItemsPerRound)
	if err != nil {
		return false, fmt.Errorf("bidding: failed to load top bids: %w", err)
	}
	cutoff := 0.0
	if len(top) >= auction.ItemsPerRound && len(top) > 0 {
		cutoff = top[len(top)-1].Amount
	}
	if amount < cutoff {
		return false, nil
	}

	// The store re-checks status and the extension cap, so a settlement that
	// slipped in between cannot be extended.
	_, applied, err := s.store.ExtendRound(ctx, auctionID, time.Duration(auction.AntiSnipingExtension)*time.Second)
	if err != nil {
		return false, fmt.Errorf("bidding: failed to extend round: %w", err)
	}
	return applied, nil
}

// rank places a bid among the auction's ACTIVE bids: higher amounts first,
// ties broken by earliest submission.
func (s *BiddingService) rank(ctx context.Context, bid model.Bid) (int, error) {
	above, err := s.store.CountBidsRankedAbove(ctx, bid.AuctionID, bid.Amount, bid.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("bidding: failed to rank bid: %w", err)
	}
	return above + 1, nil
}

// GetBidsByAuction returns every bid recorded in an auction.
func (s *BiddingService) GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("bidding: %w - empty auction ID", auctionerrors.ErrInvalidParams)
	}
	bids, err := s.store.BidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("bidding: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetBidsByBidder returns every bid a bidder has placed across auctions.
func (s *BiddingService) GetBidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("bidding: %w - empty bidder ID", auctionerrors.ErrInvalidParams)
	}
	bids, err := s.store.BidsByBidder(ctx, bidderID)
	if err != nil {
		return nil, fmt.Errorf("bidding: failed to get bids for bidder %s: %w", bidderID, err)
	}
	return bids, nil
}
