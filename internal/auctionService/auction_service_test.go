package auction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gift-auctions/internal/auctionerrors"
	"gift-auctions/internal/locker"
	model "gift-auctions/internal/models"
	"gift-auctions/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestService(st *store.MemoryStore) *AuctionService {
	return NewAuctionService(st, locker.New(st, "test-owner", time.Minute))
}

func validParams() model.CreateAuctionParams {
	return model.CreateAuctionParams{
		Name:                 "gift drop",
		TotalRounds:          3,
		FirstRoundDuration:   60,
		RegularRoundDuration: 30,
		MinBid:               10,
		MinBidIncrement:      5,
		ItemsPerRound:        2,
		TotalItems:           6,
	}
}

func seedBidder(t *testing.T, st *store.MemoryStore, id, username string, available float64) {
	t.Helper()
	require.NoError(t, st.CreateBidder(context.Background(), &model.Bidder{
		BidderID: id,
		Username: username,
		Balance:  model.Balance{Available: available},
	}))
}

// placeBid records an ACTIVE bid with its funds already held, the state
// PlaceBid leaves behind.
func placeBid(t *testing.T, st *store.MemoryStore, auctionID, bidderID string, amount float64, at time.Time) {
	t.Helper()
	ctx := context.Background()
	_, err := st.HoldFunds(ctx, bidderID, amount)
	require.NoError(t, err)
	require.NoError(t, st.CreateBid(ctx, &model.Bid{
		BidID:     uuid.NewString(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		Status:    model.BidStatusActive,
		Round:     1,
		CreatedAt: at,
	}))
}

// Tests Create
func TestAuctionService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mutate        func(p *model.CreateAuctionParams)
		expectedError error
		check         func(t *testing.T, a model.Auction)
	}{
		{
			name:   "valid_draft",
			mutate: func(p *model.CreateAuctionParams) {},
			check: func(t *testing.T, a model.Auction) {
				require.Equal(t, model.AuctionStatusDraft, a.Status)
				require.Equal(t, 0, a.CurrentRound)
				require.Nil(t, a.RoundEndTime)
			},
		},
		{
			name: "valid_scheduled",
			mutate: func(p *model.CreateAuctionParams) {
				start := time.Now().UTC().Add(time.Hour)
				p.ScheduledStartTime = &start
			},
			check: func(t *testing.T, a model.Auction) {
				require.Equal(t, model.AuctionStatusScheduled, a.Status)
				require.NotNil(t, a.ScheduledStartTime)
			},
		},
		{
			name: "defaults_applied",
			mutate: func(p *model.CreateAuctionParams) {
				p.MinBid = 0
				p.MinBidIncrement = 0
			},
			check: func(t *testing.T, a model.Auction) {
				require.Equal(t, 1.0, a.MinBid)
				require.Equal(t, 1.0, a.MinBidIncrement)
				require.Equal(t, 10, a.AntiSnipingThreshold)
				require.Equal(t, 10, a.AntiSnipingExtension)
				require.Equal(t, 10, a.MaxAntiSnipingExtensions)
			},
		},
		{
			name:          "empty_name",
			mutate:        func(p *model.CreateAuctionParams) { p.Name = "" },
			expectedError: auctionerrors.ErrInvalidParams,
		},
		{
			name:          "zero_rounds",
			mutate:        func(p *model.CreateAuctionParams) { p.TotalRounds = 0 },
			expectedError: auctionerrors.ErrInvalidParams,
		},
		{
			name:          "zero_items_per_round",
			mutate:        func(p *model.CreateAuctionParams) { p.ItemsPerRound = 0 },
			expectedError: auctionerrors.ErrInvalidParams,
		},
		{
			name:          "zero_first_round_duration",
			mutate:        func(p *model.CreateAuctionParams) { p.FirstRoundDuration = 0 },
			expectedError: auctionerrors.ErrInvalidParams,
		},
		{
			name:          "zero_regular_round_duration",
			mutate:        func(p *model.CreateAuctionParams) { p.RegularRoundDuration = 0 },
			expectedError: auctionerrors.ErrInvalidParams,
		},
		{
			name: "more_round_items_than_total",
			mutate: func(p *model.CreateAuctionParams) {
				p.ItemsPerRound = 3
				p.TotalRounds = 3
				p.TotalItems = 8
			},
			expectedError: auctionerrors.ErrInvalidParams,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := store.NewMemoryStore()
			service := newTestService(st)

			params := validParams()
			tc.mutate(&params)

			a, err := service.Create(ctx, params)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, a.AuctionID)
			_, parseErr := uuid.Parse(a.AuctionID)
			require.NoError(t, parseErr, "AuctionID should be a valid UUID")
			tc.check(t, a)
		})
	}
}

func TestAuctionService_TimeRemaining(t *testing.T) {
	t.Parallel()

	service := newTestService(store.NewMemoryStore())
	now := time.Now().UTC()
	service.now = func() time.Time { return now }

	require.Nil(t, service.TimeRemaining(model.Auction{}))

	future := now.Add(42 * time.Second)
	got := service.TimeRemaining(model.Auction{RoundEndTime: &future})
	require.NotNil(t, got)
	require.Equal(t, 42, *got)

	past := now.Add(-5 * time.Second)
	got = service.TimeRemaining(model.Auction{RoundEndTime: &past})
	require.NotNil(t, got)
	require.Equal(t, 0, *got)
}

// Tests Start and its transition guard
func TestAuctionService_Start(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		status        model.AuctionStatus
		expectedError error
	}{
		{name: "start_draft", status: model.AuctionStatusDraft},
		{name: "start_scheduled", status: model.AuctionStatusScheduled},
		{name: "start_active", status: model.AuctionStatusActive, expectedError: auctionerrors.ErrInvalidTransition},
		{name: "start_completed", status: model.AuctionStatusCompleted, expectedError: auctionerrors.ErrInvalidTransition},
		{name: "start_cancelled", status: model.AuctionStatusCancelled, expectedError: auctionerrors.ErrInvalidTransition},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := store.NewMemoryStore()
			service := newTestService(st)
			a := model.Auction{AuctionID: "a1", Status: tc.status, FirstRoundDuration: 60}
			require.NoError(t, st.CreateAuction(ctx, &a))

			started, err := service.Start(ctx, "a1")

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.AuctionStatusActive, started.Status)
			require.Equal(t, 1, started.CurrentRound)
			require.NotNil(t, started.RoundEndTime)
			require.WithinDuration(t, time.Now().Add(60*time.Second), *started.RoundEndTime, 2*time.Second)
			require.Equal(t, 0, started.AntiSnipingCount)
		})
	}
}

func TestAuctionService_Start_MissingAuction(t *testing.T) {
	t.Parallel()

	service := newTestService(store.NewMemoryStore())
	_, err := service.Start(context.Background(), "missing")
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)
}

// Final-round settlement: top bids win and are charged, the rest are refunded
func TestAuctionService_EndRound_FinalRoundSettlement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	service := newTestService(st)

	end := time.Now().UTC().Add(time.Minute)
	a := model.Auction{
		AuctionID:     "a1",
		Status:        model.AuctionStatusActive,
		TotalRounds:   1,
		ItemsPerRound: 2,
		TotalItems:    2,
		CurrentRound:  1,
		RoundEndTime:  &end,
	}
	require.NoError(t, st.CreateAuction(ctx, &a))

	now := time.Now().UTC()
	seedBidder(t, st, "A", "alice", 100)
	seedBidder(t, st, "B", "bob", 150)
	seedBidder(t, st, "C", "carol", 120)
	placeBid(t, st, "a1", "A", 100, now)
	placeBid(t, st, "a1", "B", 150, now.Add(time.Second))
	placeBid(t, st, "a1", "C", 120, now.Add(2*time.Second))

	result, err := service.EndRound(ctx, "a1")
	require.NoError(t, err)
	require.False(t, result.NextRound)
	require.Equal(t, []string{"B", "C"}, result.Winners)

	// winners were charged from escrow
	b, err := st.GetBidder(ctx, "B")
	require.NoError(t, err)
	require.Equal(t, 0.0, b.Balance.Available)
	require.Equal(t, 0.0, b.Balance.Held)

	c, err := st.GetBidder(ctx, "C")
	require.NoError(t, err)
	require.Equal(t, 0.0, c.Balance.Available)
	require.Equal(t, 0.0, c.Balance.Held)

	// the loser got a full refund
	aBidder, err := st.GetBidder(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, 100.0, aBidder.Balance.Available)
	require.Equal(t, 0.0, aBidder.Balance.Held)

	got, err := st.GetAuction(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionStatusCompleted, got.Status)
	require.Nil(t, got.RoundEndTime)
	require.Equal(t, 2, got.ItemsDistributed)

	_, err = st.ActiveBid(ctx, "a1", "A")
	require.ErrorIs(t, err, auctionerrors.ErrBidNotFound)
}

// A settled round with rounds, items and bidders left rolls into the next one
func TestAuctionService_EndRound_Continuation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	service := newTestService(st)

	end := time.Now().UTC().Add(time.Minute)
	a := model.Auction{
		AuctionID:            "a1",
		Status:               model.AuctionStatusActive,
		TotalRounds:          2,
		RegularRoundDuration: 30,
		ItemsPerRound:        1,
		TotalItems:           2,
		CurrentRound:         1,
		RoundEndTime:         &end,
		AntiSnipingCount:     2,
	}
	require.NoError(t, st.CreateAuction(ctx, &a))

	now := time.Now().UTC()
	seedBidder(t, st, "A", "alice", 100)
	seedBidder(t, st, "B", "bob", 150)
	placeBid(t, st, "a1", "A", 100, now)
	placeBid(t, st, "a1", "B", 150, now.Add(time.Second))

	result, err := service.EndRound(ctx, "a1")
	require.NoError(t, err)
	require.True(t, result.NextRound)
	require.Equal(t, []string{"B"}, result.Winners)

	got, err := st.GetAuction(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionStatusActive, got.Status)
	require.Equal(t, 2, got.CurrentRound)
	require.Equal(t, 1, got.ItemsDistributed)
	require.Equal(t, 0, got.AntiSnipingCount, "extension count resets each round")
	require.NotNil(t, got.RoundEndTime)
	require.WithinDuration(t, time.Now().Add(30*time.Second), *got.RoundEndTime, 2*time.Second)

	// the losing bid carries into the next round, funds still held
	bid, err := st.ActiveBid(ctx, "a1", "A")
	require.NoError(t, err)
	require.Equal(t, 100.0, bid.Amount)
	aBidder, err := st.GetBidder(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, 100.0, aBidder.Balance.Held)

	// winner's bid is settled with its round recorded
	won, err := st.WonBids(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, won, 1)
	require.Equal(t, "B", won[0].BidderID)
	require.Equal(t, 1, won[0].WonInRound)
}

// A round with no bidders left completes even with rounds and items remaining
func TestAuctionService_EndRound_NoRemainingBidders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	service := newTestService(st)

	end := time.Now().UTC().Add(time.Minute)
	a := model.Auction{
		AuctionID:            "a1",
		Status:               model.AuctionStatusActive,
		TotalRounds:          3,
		RegularRoundDuration: 30,
		ItemsPerRound:        2,
		TotalItems:           6,
		CurrentRound:         1,
		RoundEndTime:         &end,
	}
	require.NoError(t, st.CreateAuction(ctx, &a))

	seedBidder(t, st, "A", "alice", 100)
	placeBid(t, st, "a1", "A", 100, time.Now().UTC())

	result, err := service.EndRound(ctx, "a1")
	require.NoError(t, err)
	require.False(t, result.NextRound)
	require.Equal(t, []string{"A"}, result.Winners)

	got, err := st.GetAuction(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionStatusCompleted, got.Status)
}

// Settling a non-ACTIVE auction fails and mutates nothing
func TestAuctionService_EndRound_NotActive(t *testing.T) {
	ctx := context.Background()

	for _, status := range []model.AuctionStatus{
		model.AuctionStatusDraft,
		model.AuctionStatusScheduled,
		model.AuctionStatusCompleted,
		model.AuctionStatusCancelled,
	} {
		status := status
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()

			st := store.NewMemoryStore()
			service := newTestService(st)
			a := model.Auction{AuctionID: "a1", Status: status, ItemsPerRound: 1}
			require.NoError(t, st.CreateAuction(ctx, &a))

			seedBidder(t, st, "A", "alice", 100)
			placeBid(t, st, "a1", "A", 50, time.Now().UTC())

			_, err := service.EndRound(ctx, "a1")
			require.ErrorIs(t, err, auctionerrors.ErrInvalidTransition)

			// nothing changed
			bid, err := st.ActiveBid(ctx, "a1", "A")
			require.NoError(t, err)
			require.Equal(t, model.BidStatusActive, bid.Status)
			bidder, err := st.GetBidder(ctx, "A")
			require.NoError(t, err)
			require.Equal(t, 50.0, bidder.Balance.Held)
		})
	}
}

// Two concurrent settlements of the same round produce exactly one outcome
func TestAuctionService_EndRound_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()

	end := time.Now().UTC().Add(time.Minute)
	a := model.Auction{
		AuctionID:     "a1",
		Status:        model.AuctionStatusActive,
		TotalRounds:   1,
		ItemsPerRound: 1,
		TotalItems:    1,
		CurrentRound:  1,
		RoundEndTime:  &end,
	}
	require.NoError(t, st.CreateAuction(ctx, &a))
	seedBidder(t, st, "A", "alice", 100)
	placeBid(t, st, "a1", "A", 100, time.Now().UTC())

	// two service instances, as in two processes sharing the store
	s1 := NewAuctionService(st, locker.New(st, "instance1", time.Minute))
	s2 := NewAuctionService(st, locker.New(st, "instance2", time.Minute))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, s := range []*AuctionService{s1, s2} {
		i, s := i, s
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.EndRound(ctx, "a1")
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			require.True(t,
				errors.Is(err, auctionerrors.ErrContended) || errors.Is(err, auctionerrors.ErrInvalidTransition),
				"unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok, "exactly one settlement must succeed")

	// the winner was charged exactly once
	bidder, err := st.GetBidder(ctx, "A")
	require.NoError(t, err)
	require.Equal(t, 0.0, bidder.Balance.Available)
	require.Equal(t, 0.0, bidder.Balance.Held)
}

// Tests Cancel
func TestAuctionService_Cancel(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		status        model.AuctionStatus
		expectedError error
	}{
		{name: "cancel_draft", status: model.AuctionStatusDraft},
		{name: "cancel_scheduled", status: model.AuctionStatusScheduled},
		{name: "cancel_active", status: model.AuctionStatusActive},
		{name: "cancel_completed", status: model.AuctionStatusCompleted, expectedError: auctionerrors.ErrInvalidTransition},
		{name: "cancel_cancelled", status: model.AuctionStatusCancelled, expectedError: auctionerrors.ErrInvalidTransition},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			st := store.NewMemoryStore()
			service := newTestService(st)
			end := time.Now().UTC().Add(time.Minute)
			a := model.Auction{AuctionID: "a1", Status: tc.status, ItemsPerRound: 1, RoundEndTime: &end}
			require.NoError(t, st.CreateAuction(ctx, &a))

			seedBidder(t, st, "A", "alice", 100)
			seedBidder(t, st, "B", "bob", 100)
			placeBid(t, st, "a1", "A", 60, time.Now().UTC())
			placeBid(t, st, "a1", "B", 70, time.Now().UTC())

			refunded, err := service.Cancel(ctx, "a1")

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 2, refunded)

			got, err := st.GetAuction(ctx, "a1")
			require.NoError(t, err)
			require.Equal(t, model.AuctionStatusCancelled, got.Status)
			require.Nil(t, got.RoundEndTime)

			for _, id := range []string{"A", "B"} {
				bidder, err := st.GetBidder(ctx, id)
				require.NoError(t, err)
				require.Equal(t, 100.0, bidder.Balance.Available)
				require.Equal(t, 0.0, bidder.Balance.Held)
			}
		})
	}
}

func TestAuctionService_ProcessScheduledAuctions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	service := newTestService(st)

	past := time.Now().UTC().Add(-time.Second)
	future := time.Now().UTC().Add(time.Hour)
	due := model.Auction{AuctionID: "due", Status: model.AuctionStatusScheduled, ScheduledStartTime: &past, FirstRoundDuration: 60}
	later := model.Auction{AuctionID: "later", Status: model.AuctionStatusScheduled, ScheduledStartTime: &future, FirstRoundDuration: 60}
	require.NoError(t, st.CreateAuction(ctx, &due))
	require.NoError(t, st.CreateAuction(ctx, &later))

	require.NoError(t, service.ProcessScheduledAuctions(ctx))

	got, err := st.GetAuction(ctx, "due")
	require.NoError(t, err)
	require.Equal(t, model.AuctionStatusActive, got.Status)
	require.Equal(t, 1, got.CurrentRound)

	got, err = st.GetAuction(ctx, "later")
	require.NoError(t, err)
	require.Equal(t, model.AuctionStatusScheduled, got.Status)
}

func TestAuctionService_ProcessEndingRounds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	service := newTestService(st)

	past := time.Now().UTC().Add(-time.Second)
	a := model.Auction{
		AuctionID:     "a1",
		Status:        model.AuctionStatusActive,
		TotalRounds:   1,
		ItemsPerRound: 1,
		TotalItems:    1,
		CurrentRound:  1,
		RoundEndTime:  &past,
	}
	require.NoError(t, st.CreateAuction(ctx, &a))
	seedBidder(t, st, "A", "alice", 100)
	placeBid(t, st, "a1", "A", 100, time.Now().UTC())

	require.NoError(t, service.ProcessEndingRounds(ctx))

	got, err := st.GetAuction(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionStatusCompleted, got.Status)
}

func TestAuctionService_Leaderboard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	service := newTestService(st)

	end := time.Now().UTC().Add(time.Minute)
	a := model.Auction{AuctionID: "a1", Status: model.AuctionStatusActive, ItemsPerRound: 2, RoundEndTime: &end}
	require.NoError(t, st.CreateAuction(ctx, &a))

	now := time.Now().UTC()
	seedBidder(t, st, "A", "alice", 1000)
	seedBidder(t, st, "B", "bob", 1000)
	seedBidder(t, st, "C", "carol", 1000)
	placeBid(t, st, "a1", "A", 100, now)
	placeBid(t, st, "a1", "B", 150, now.Add(time.Second))
	placeBid(t, st, "a1", "C", 120, now.Add(2*time.Second))

	entries, err := service.Leaderboard(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "B", entries[0].BidderID)
	require.Equal(t, "bob", entries[0].Username)
	require.Equal(t, 1, entries[0].Rank)
	require.True(t, entries[0].IsWinningPosition)

	require.Equal(t, "C", entries[1].BidderID)
	require.Equal(t, 2, entries[1].Rank)
	require.True(t, entries[1].IsWinningPosition)

	require.Equal(t, "A", entries[2].BidderID)
	require.Equal(t, 3, entries[2].Rank)
	require.False(t, entries[2].IsWinningPosition)
}

func TestAuctionService_Winners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	service := newTestService(st)

	a := model.Auction{AuctionID: "a1", Status: model.AuctionStatusCompleted}
	require.NoError(t, st.CreateAuction(ctx, &a))

	seedBidder(t, st, "A", "alice", 0)
	seedBidder(t, st, "B", "bob", 0)
	now := time.Now().UTC()
	require.NoError(t, st.CreateBid(ctx, &model.Bid{BidID: "bid1", AuctionID: "a1", BidderID: "A", Amount: 80, Status: model.BidStatusWon, WonInRound: 2, CreatedAt: now}))
	require.NoError(t, st.CreateBid(ctx, &model.Bid{BidID: "bid2", AuctionID: "a1", BidderID: "B", Amount: 200, Status: model.BidStatusWon, WonInRound: 1, CreatedAt: now}))

	winners, err := service.Winners(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, winners, 2)

	require.Equal(t, "B", winners[0].BidderID)
	require.Equal(t, "bob", winners[0].Username)
	require.Equal(t, 1, winners[0].Round)
	require.Equal(t, 1, winners[0].ItemNumber)

	require.Equal(t, "A", winners[1].BidderID)
	require.Equal(t, 2, winners[1].Round)
	require.Equal(t, 2, winners[1].ItemNumber)

	_, err = service.Winners(ctx, "")
	require.ErrorIs(t, err, auctionerrors.ErrInvalidParams)
}
