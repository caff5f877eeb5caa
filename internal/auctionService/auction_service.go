package auction

import (
	"context"
	"fmt"
	"time"

	"gift-auctions/internal/auctionerrors"
	"gift-auctions/internal/locker"
	model "gift-auctions/internal/models"
	"gift-auctions/internal/store"
	"gift-auctions/utils"
)

// Defaults applied at creation when the caller leaves a field unset, matching
// the field minimums the data model documents.
const (
	defaultMinBid               = 1.0
	defaultMinBidIncrement      = 1.0
	defaultAntiSnipingThreshold = 10
	defaultAntiSnipingExtension = 10
	defaultMaxExtensions        = 10
)

// RoundResult reports a settlement: who won the round and whether the
// auction rolled into another one.
type RoundResult struct {
	Winners   []string
	NextRound bool
}

// LeaderboardEntry is one row of an auction's live standing.
type LeaderboardEntry struct {
	BidderID          string  `json:"bidder_id"`
	Username          string  `json:"username"`
	Amount            float64 `json:"amount"`
	Rank              int     `json:"rank"`
	IsWinningPosition bool    `json:"is_winning_position"`
}

// Winner is one settled item: which bid took it and in which round.
type Winner struct {
	BidderID   string  `json:"bidder_id"`
	Username   string  `json:"username"`
	Amount     float64 `json:"amount"`
	Round      int     `json:"round"`
	ItemNumber int     `json:"item_number"`
}

// AuctionService drives the auction state machine: DRAFT/SCHEDULED start
// into ACTIVE, rounds settle until rounds, items or bidders run out, and
// DRAFT/SCHEDULED/ACTIVE can be cancelled. Start, settlement and cancel each
// run under a per-auction lease so only one process instance executes them,
// and every multi-record mutation runs in a store transaction.
type AuctionService struct {
	store  store.Store
	locker *locker.LeaseLocker
	now    func() time.Time
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(st store.Store, lk *locker.LeaseLocker) *AuctionService {
	return &AuctionService{
		store:  st,
		locker: lk,
		now:    time.Now,
	}
}

// Create validates parameters and records a new auction. The auction is
// SCHEDULED when a start time is given and DRAFT otherwise.
func (s *AuctionService) Create(ctx context.Context, params model.CreateAuctionParams) (model.Auction, error) {
	if params.Name == "" {
		return model.Auction{}, fmt.Errorf("auction: %w - empty name", auctionerrors.ErrInvalidParams)
	}
	if params.TotalRounds < 1 || params.ItemsPerRound < 1 || params.TotalItems < 1 {
		return model.Auction{}, fmt.Errorf("auction: %w - rounds, items per round and total items must be at least 1", auctionerrors.ErrInvalidParams)
	}
	if params.FirstRoundDuration < 1 || params.RegularRoundDuration < 1 {
		return model.Auction{}, fmt.Errorf("auction: %w - round durations must be at least 1 second", auctionerrors.ErrInvalidParams)
	}
	if params.ItemsPerRound*params.TotalRounds > params.TotalItems {
		return model.Auction{}, fmt.Errorf("auction: %w - itemsPerRound * totalRounds cannot exceed totalItems", auctionerrors.ErrInvalidParams)
	}

	status := model.AuctionStatusDraft
	if params.ScheduledStartTime != nil {
		status = model.AuctionStatusScheduled
	}

	a := model.Auction{
		AuctionID:                utils.GenerateID(),
		Name:                     params.Name,
		Description:              params.Description,
		TotalRounds:              params.TotalRounds,
		FirstRoundDuration:       params.FirstRoundDuration,
		RegularRoundDuration:     params.RegularRoundDuration,
		MinBid:                   params.MinBid,
		MinBidIncrement:          params.MinBidIncrement,
		ItemsPerRound:            params.ItemsPerRound,
		TotalItems:               params.TotalItems,
		Status:                   status,
		ScheduledStartTime:       params.ScheduledStartTime,
		AntiSnipingThreshold:     params.AntiSnipingThreshold,
		AntiSnipingExtension:     params.AntiSnipingExtension,
		MaxAntiSnipingExtensions: params.MaxAntiSnipingExtensions,
		CreatedAt:                s.now().UTC(),
	}
	if a.MinBid <= 0 {
		a.MinBid = defaultMinBid
	}
	if a.MinBidIncrement <= 0 {
		a.MinBidIncrement = defaultMinBidIncrement
	}
	if a.AntiSnipingThreshold <= 0 {
		a.AntiSnipingThreshold = defaultAntiSnipingThreshold
	}
	if a.AntiSnipingExtension <= 0 {
		a.AntiSnipingExtension = defaultAntiSnipingExtension
	}
	if a.MaxAntiSnipingExtensions <= 0 {
		a.MaxAntiSnipingExtensions = defaultMaxExtensions
	}

	if err := s.store.CreateAuction(ctx, &a); err != nil {
		return model.Auction{}, fmt.Errorf("auction: failed to create auction %q: %w", params.Name, err)
	}

	utils.Info("auction created", map[string]any{
		"auction_id": a.AuctionID,
		"name":       a.Name,
		"status":     string(a.Status),
	})
	return a, nil
}

// GetAll returns every auction.
func (s *AuctionService) GetAll(ctx context.Context) ([]model.Auction, error) {
	auctions, err := s.store.ListAuctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("auction: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// GetByID returns one auction.
func (s *AuctionService) GetByID(ctx context.Context, auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("auction: %w - empty auction ID", auctionerrors.ErrInvalidParams)
	}
	a, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("auction: failed to get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// TimeRemaining reports the whole seconds left in the running round, clamped
// at zero, or nil when the auction has no running round.
func (s *AuctionService) TimeRemaining(a model.Auction) *int {
	if a.RoundEndTime == nil {
		return nil
	}
	remaining := int(a.RoundEndTime.Sub(s.now()).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// Start opens the first round of a DRAFT or SCHEDULED auction. It runs under
// the auction's start lease; a concurrent start surfaces as ErrContended.
func (s *AuctionService) Start(ctx context.Context, auctionID string) (model.Auction, error) {
	var started model.Auction
	acquired, err := s.locker.WithLock(ctx, "auction:start:"+auctionID, 0, func(ctx context.Context) error {
		var innerErr error
		started, innerErr = s.startLocked(ctx, auctionID)
		return innerErr
	})
	if err != nil {
		return model.Auction{}, err
	}
	if !acquired {
		return model.Auction{}, fmt.Errorf("auction: %w - start of auction %s already in progress", auctionerrors.ErrContended, auctionID)
	}
	return started, nil
}

func (s *AuctionService) startLocked(ctx context.Context, auctionID string) (model.Auction, error) {
	a, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("auction: failed to load auction: %w", err)
	}
	if a.Status != model.AuctionStatusDraft && a.Status != model.AuctionStatusScheduled {
		return model.Auction{}, fmt.Errorf("auction: %w - cannot start auction in %s status", auctionerrors.ErrInvalidTransition, a.Status)
	}

	end := s.now().Add(time.Duration(a.FirstRoundDuration) * time.Second)
	a.Status = model.AuctionStatusActive
	a.CurrentRound = 1
	a.RoundEndTime = &end
	a.AntiSnipingCount = 0
	if err := s.store.UpdateAuction(ctx, a); err != nil {
		return model.Auction{}, fmt.Errorf("auction: failed to start auction %s: %w", auctionID, err)
	}

	utils.Info("auction started", map[string]any{
		"auction_id":     a.AuctionID,
		"round_end_time": end.UTC().Format(time.RFC3339),
	})
	return a, nil
}

// EndRound settles the current round: the top itemsPerRound ACTIVE bids win
// and are charged, then the auction either rolls into the next round or
// completes, refunding every remaining ACTIVE bid. The whole settlement is
// one transaction under the auction's endRound lease.
func (s *AuctionService) EndRound(ctx context.Context, auctionID string) (RoundResult, error) {
	var result RoundResult
	acquired, err := s.locker.WithLock(ctx, "auction:endRound:"+auctionID, 0, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = s.settleRound(ctx, auctionID)
		return innerErr
	})
	if err != nil {
		return RoundResult{}, err
	}
	if !acquired {
		return RoundResult{}, fmt.Errorf("auction: %w - settlement of auction %s already in progress", auctionerrors.ErrContended, auctionID)
	}
	return result, nil
}

func (s *AuctionService) settleRound(ctx context.Context, auctionID string) (RoundResult, error) {
	var result RoundResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		// Reload inside the transaction: a concurrent settlement that won the
		// lease first has already moved the auction out of ACTIVE.
		a, err := tx.GetAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		if a.Status != model.AuctionStatusActive {
			return fmt.Errorf("auction: %w - cannot settle auction in %s status", auctionerrors.ErrInvalidTransition, a.Status)
		}

		topBids, err := tx.TopActiveBids(ctx, auctionID, a.ItemsPerRound)
		if err != nil {
			return err
		}
		winners := make([]string, 0, len(topBids))
		for _, bid := range topBids {
			bid.Status = model.BidStatusWon
			bid.WonInRound = a.CurrentRound
			if err := tx.UpdateBid(ctx, bid); err != nil {
				return err
			}
			if _, err := tx.ChargeHeld(ctx, bid.BidderID, bid.Amount); err != nil {
				return err
			}
			winners = append(winners, bid.BidderID)
		}
		a.ItemsDistributed += len(topBids)

		remaining, err := tx.CountActiveBids(ctx, auctionID)
		if err != nil {
			return err
		}
		hasMoreRounds := a.CurrentRound < a.TotalRounds
		hasMoreItems := a.ItemsDistributed < a.TotalItems

		if hasMoreRounds && hasMoreItems && remaining > 0 {
			end := s.now().Add(time.Duration(a.RegularRoundDuration) * time.Second)
			a.CurrentRound++
			a.RoundEndTime = &end
			a.AntiSnipingCount = 0
			result = RoundResult{Winners: winners, NextRound: true}
		} else {
			a.Status = model.AuctionStatusCompleted
			a.RoundEndTime = nil
			losers, err := tx.TopActiveBids(ctx, auctionID, 0)
			if err != nil {
				return err
			}
			for _, bid := range losers {
				bid.Status = model.BidStatusLost
				if err := tx.UpdateBid(ctx, bid); err != nil {
					return err
				}
				if _, err := tx.RefundHeld(ctx, bid.BidderID, bid.Amount); err != nil {
					return err
				}
			}
			result = RoundResult{Winners: winners, NextRound: false}
		}
		return tx.UpdateAuction(ctx, a)
	})
	if err != nil {
		return RoundResult{}, err
	}

	utils.Info("round settled", map[string]any{
		"auction_id": auctionID,
		"winners":    len(result.Winners),
		"next_round": result.NextRound,
	})
	return result, nil
}

// Cancel terminates an auction that has not completed: every ACTIVE bid is
// marked LOST and refunded in one transaction under the cancel lease. It
// returns the number of refunded bids.
func (s *AuctionService) Cancel(ctx context.Context, auctionID string) (int, error) {
	var refunded int
	acquired, err := s.locker.WithLock(ctx, "auction:cancel:"+auctionID, 0, func(ctx context.Context) error {
		return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
			a, err := tx.GetAuction(ctx, auctionID)
			if err != nil {
				return err
			}
			if a.Status == model.AuctionStatusCompleted {
				return fmt.Errorf("auction: %w - cannot cancel completed auction", auctionerrors.ErrInvalidTransition)
			}
			if a.Status == model.AuctionStatusCancelled {
				return fmt.Errorf("auction: %w - auction is already cancelled", auctionerrors.ErrInvalidTransition)
			}

			activeBids, err := tx.TopActiveBids(ctx, auctionID, 0)
			if err != nil {
				return err
			}
			for _, bid := range activeBids {
				bid.Status = model.BidStatusLost
				if err := tx.UpdateBid(ctx, bid); err != nil {
					return err
				}
				if _, err := tx.RefundHeld(ctx, bid.BidderID, bid.Amount); err != nil {
					return err
				}
			}

			a.Status = model.AuctionStatusCancelled
			a.RoundEndTime = nil
			refunded = len(activeBids)
			return tx.UpdateAuction(ctx, a)
		})
	})
	if err != nil {
		return 0, err
	}
	if !acquired {
		return 0, fmt.Errorf("auction: %w - cancellation of auction %s already in progress", auctionerrors.ErrContended, auctionID)
	}

	utils.Info("auction cancelled", map[string]any{
		"auction_id":    auctionID,
		"refunded_bids": refunded,
	})
	return refunded, nil
}

// ProcessScheduledAuctions starts every SCHEDULED auction whose start time
// has passed. An auction whose start lease is held by another instance is
// skipped; the next tick retries it.
func (s *AuctionService) ProcessScheduledAuctions(ctx context.Context) error {
	due, err := s.store.FindScheduledDue(ctx, s.now())
	if err != nil {
		return fmt.Errorf("auction: failed to find due scheduled auctions: %w", err)
	}
	for _, a := range due {
		auctionID := a.AuctionID
		_, err := s.locker.WithLock(ctx, "auction:start:"+auctionID, 0, func(ctx context.Context) error {
			_, innerErr := s.startLocked(ctx, auctionID)
			return innerErr
		})
		if err != nil {
			utils.Error("scheduled start failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		}
	}
	return nil
}

// ProcessEndingRounds settles every ACTIVE auction whose round deadline has
// passed, skipping auctions another instance is already settling.
func (s *AuctionService) ProcessEndingRounds(ctx context.Context) error {
	due, err := s.store.FindRoundsDue(ctx, s.now())
	if err != nil {
		return fmt.Errorf("auction: failed to find due rounds: %w", err)
	}
	for _, a := range due {
		auctionID := a.AuctionID
		_, err := s.locker.WithLock(ctx, "auction:endRound:"+auctionID, 0, func(ctx context.Context) error {
			_, innerErr := s.settleRound(ctx, auctionID)
			return innerErr
		})
		if err != nil {
			utils.Error("round settlement failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		}
	}
	return nil
}

// Leaderboard returns the auction's ACTIVE bids in rank order, flagging the
// ones currently inside the winning set.
func (s *AuctionService) Leaderboard(ctx context.Context, auctionID string) ([]LeaderboardEntry, error) {
	a, err := s.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	bids, err := s.store.TopActiveBids(ctx, auctionID, 0)
	if err != nil {
		return nil, fmt.Errorf("auction: failed to load bids for auction %s: %w", auctionID, err)
	}

	usernames, err := s.usernamesFor(ctx, bids)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(bids))
	for i, bid := range bids {
		entries = append(entries, LeaderboardEntry{
			BidderID:          bid.BidderID,
			Username:          usernames[bid.BidderID],
			Amount:            bid.Amount,
			Rank:              i + 1,
			IsWinningPosition: i < a.ItemsPerRound,
		})
	}
	return entries, nil
}

// Winners returns the auction's settled items in distribution order.
func (s *AuctionService) Winners(ctx context.Context, auctionID string) ([]Winner, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("auction: %w - empty auction ID", auctionerrors.ErrInvalidParams)
	}
	won, err := s.store.WonBids(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("auction: failed to load won bids for auction %s: %w", auctionID, err)
	}

	usernames, err := s.usernamesFor(ctx, won)
	if err != nil {
		return nil, err
	}
	winners := make([]Winner, 0, len(won))
	for i, bid := range won {
		winners = append(winners, Winner{
			BidderID:   bid.BidderID,
			Username:   usernames[bid.BidderID],
			Amount:     bid.Amount,
			Round:      bid.WonInRound,
			ItemNumber: i + 1,
		})
	}
	return winners, nil
}

// usernamesFor resolves the bidders behind a set of bids in one query.
func (s *AuctionService) usernamesFor(ctx context.Context, bids []model.Bid) (map[string]string, error) {
	ids := make([]string, 0, len(bids))
	seen := make(map[string]bool, len(bids))
	for _, bid := range bids {
		if !seen[bid.BidderID] {
			seen[bid.BidderID] = true
			ids = append(ids, bid.BidderID)
		}
	}
	bidders, err := s.store.GetBidders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("auction: failed to load bidders: %w", err)
	}
	usernames := make(map[string]string, len(bidders))
	for _, b := range bidders {
		usernames[b.BidderID] = b.Username
	}
	return usernames, nil
}
