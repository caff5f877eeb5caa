package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gift-auctions/internal/auctionerrors"
	model "gift-auctions/internal/models"
)

// MemoryStore is a concurrency-safe in-memory implementation of Store, used
// by tests and as a single-process dev backend. A transaction takes the
// write lock for its whole duration and restores a snapshot on rollback, so
// transactional writes are serialized and all-or-nothing.
type MemoryStore struct {
	mu        sync.RWMutex
	auctions  map[string]model.Auction
	bids      map[string]model.Bid
	bidders   map[string]model.Bidder
	leases    map[string]model.Lease
	usernames map[string]string // username -> bidderID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions:  make(map[string]model.Auction),
		bids:      make(map[string]model.Bid),
		bidders:   make(map[string]model.Bidder),
		leases:    make(map[string]model.Lease),
		usernames: make(map[string]string),
	}
}

// ---- auctions ----

func (s *MemoryStore) CreateAuction(ctx context.Context, a *model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createAuction(a)
}

func (s *MemoryStore) createAuction(a *model.Auction) error {
	s.auctions[a.AuctionID] = *a
	return nil
}

func (s *MemoryStore) GetAuction(ctx context.Context, id string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getAuction(id)
}

func (s *MemoryStore) getAuction(id string) (model.Auction, error) {
	a, ok := s.auctions[id]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", id, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

func (s *MemoryStore) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAuctions()
}

func (s *MemoryStore) listAuctions() ([]model.Auction, error) {
	out := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateAuction(ctx context.Context, a model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateAuction(a)
}

func (s *MemoryStore) updateAuction(a model.Auction) error {
	if _, ok := s.auctions[a.AuctionID]; !ok {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	s.auctions[a.AuctionID] = a
	return nil
}

func (s *MemoryStore) FindScheduledDue(ctx context.Context, now time.Time) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findScheduledDue(now)
}

func (s *MemoryStore) findScheduledDue(now time.Time) ([]model.Auction, error) {
	var out []model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionStatusScheduled && a.ScheduledStartTime != nil && !a.ScheduledStartTime.After(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindRoundsDue(ctx context.Context, now time.Time) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findRoundsDue(now)
}

func (s *MemoryStore) findRoundsDue(now time.Time) ([]model.Auction, error) {
	var out []model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionStatusActive && a.RoundEndTime != nil && !a.RoundEndTime.After(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) ExtendRound(ctx context.Context, auctionID string, by time.Duration) (model.Auction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extendRound(auctionID, by)
}

func (s *MemoryStore) extendRound(auctionID string, by time.Duration) (model.Auction, bool, error) {
	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, false, fmt.Errorf("extend round for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if a.Status != model.AuctionStatusActive || a.RoundEndTime == nil || a.AntiSnipingCount >= a.MaxAntiSnipingExtensions {
		return a, false, nil
	}
	extended := a.RoundEndTime.Add(by)
	a.RoundEndTime = &extended
	a.AntiSnipingCount++
	s.auctions[auctionID] = a
	return a, true, nil
}

// ---- bids ----

func (s *MemoryStore) CreateBid(ctx context.Context, b *model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBid(b)
}

func (s *MemoryStore) createBid(b *model.Bid) error {
	s.bids[b.BidID] = *b
	return nil
}

func (s *MemoryStore) UpdateBid(ctx context.Context, b model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateBid(b)
}

func (s *MemoryStore) updateBid(b model.Bid) error {
	if _, ok := s.bids[b.BidID]; !ok {
		return fmt.Errorf("update bid %s: %w", b.BidID, auctionerrors.ErrBidNotFound)
	}
	s.bids[b.BidID] = b
	return nil
}

func (s *MemoryStore) ActiveBid(ctx context.Context, auctionID, bidderID string) (model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeBid(auctionID, bidderID)
}

func (s *MemoryStore) activeBid(auctionID, bidderID string) (model.Bid, error) {
	for _, b := range s.bids {
		if b.AuctionID == auctionID && b.BidderID == bidderID && b.Status == model.BidStatusActive {
			return b, nil
		}
	}
	return model.Bid{}, fmt.Errorf("active bid for bidder %s in auction %s: %w", bidderID, auctionID, auctionerrors.ErrBidNotFound)
}

func (s *MemoryStore) TopActiveBids(ctx context.Context, auctionID string, limit int) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topActiveBids(auctionID, limit)
}

func (s *MemoryStore) topActiveBids(auctionID string, limit int) ([]model.Bid, error) {
	var out []model.Bid
	for _, b := range s.bids {
		if b.AuctionID == auctionID && b.Status == model.BidStatusActive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].BidID < out[j].BidID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CountActiveBids(ctx context.Context, auctionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countActiveBids(auctionID)
}

func (s *MemoryStore) countActiveBids(auctionID string) (int, error) {
	n := 0
	for _, b := range s.bids {
		if b.AuctionID == auctionID && b.Status == model.BidStatusActive {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountBidsRankedAbove(ctx context.Context, auctionID string, amount float64, createdAt time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countBidsRankedAbove(auctionID, amount, createdAt)
}

func (s *MemoryStore) countBidsRankedAbove(auctionID string, amount float64, createdAt time.Time) (int, error) {
	n := 0
	for _, b := range s.bids {
		if b.AuctionID != auctionID || b.Status != model.BidStatusActive {
			continue
		}
		if b.Amount > amount || (b.Amount == amount && b.CreatedAt.Before(createdAt)) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) WonBids(ctx context.Context, auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wonBids(auctionID)
}

func (s *MemoryStore) wonBids(auctionID string) ([]model.Bid, error) {
	var out []model.Bid
	for _, b := range s.bids {
		if b.AuctionID == auctionID && b.Status == model.BidStatusWon {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WonInRound != out[j].WonInRound {
			return out[i].WonInRound < out[j].WonInRound
		}
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) BidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bidsByAuction(auctionID)
}

func (s *MemoryStore) bidsByAuction(auctionID string) ([]model.Bid, error) {
	var out []model.Bid
	for _, b := range s.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) BidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bidsByBidder(bidderID)
}

func (s *MemoryStore) bidsByBidder(bidderID string) ([]model.Bid, error) {
	var out []model.Bid
	for _, b := range s.bids {
		if b.BidderID == bidderID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- bidders ----

func (s *MemoryStore) CreateBidder(ctx context.Context, b *model.Bidder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBidder(b)
}

func (s *MemoryStore) createBidder(b *model.Bidder) error {
	if _, taken := s.usernames[b.Username]; taken {
		return fmt.Errorf("create bidder %q: %w", b.Username, auctionerrors.ErrDuplicateUsername)
	}
	s.bidders[b.BidderID] = *b
	s.usernames[b.Username] = b.BidderID
	return nil
}

func (s *MemoryStore) GetBidder(ctx context.Context, id string) (model.Bidder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBidder(id)
}

func (s *MemoryStore) getBidder(id string) (model.Bidder, error) {
	b, ok := s.bidders[id]
	if !ok {
		return model.Bidder{}, fmt.Errorf("get bidder %s: %w", id, auctionerrors.ErrBidderNotFound)
	}
	return b, nil
}

func (s *MemoryStore) GetBidders(ctx context.Context, ids []string) ([]model.Bidder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getBidders(ids)
}

func (s *MemoryStore) getBidders(ids []string) ([]model.Bidder, error) {
	out := make([]model.Bidder, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.bidders[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListBidders(ctx context.Context) ([]model.Bidder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listBidders()
}

func (s *MemoryStore) listBidders() ([]model.Bidder, error) {
	out := make([]model.Bidder, 0, len(s.bidders))
	for _, b := range s.bidders {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) HoldFunds(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holdFunds(bidderID, amount)
}

func (s *MemoryStore) holdFunds(bidderID string, amount float64) (model.Bidder, error) {
	b, ok := s.bidders[bidderID]
	if !ok {
		return model.Bidder{}, fmt.Errorf("hold funds for bidder %s: %w", bidderID, auctionerrors.ErrBidderNotFound)
	}
	if b.Balance.Available < amount {
		return model.Bidder{}, fmt.Errorf("hold %.2f for bidder %s: %w", amount, bidderID, auctionerrors.ErrInsufficientFunds)
	}
	b.Balance.Available -= amount
	b.Balance.Held += amount
	s.bidders[bidderID] = b
	return b, nil
}

func (s *MemoryStore) ChargeHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chargeHeld(bidderID, amount)
}

func (s *MemoryStore) chargeHeld(bidderID string, amount float64) (model.Bidder, error) {
	b, ok := s.bidders[bidderID]
	if !ok {
		return model.Bidder{}, fmt.Errorf("charge bidder %s: %w", bidderID, auctionerrors.ErrBidderNotFound)
	}
	if b.Balance.Held < amount {
		return model.Bidder{}, fmt.Errorf("charge %.2f from bidder %s: %w", amount, bidderID, auctionerrors.ErrInsufficientHeldFunds)
	}
	b.Balance.Held -= amount
	s.bidders[bidderID] = b
	return b, nil
}

func (s *MemoryStore) RefundHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refundHeld(bidderID, amount)
}

func (s *MemoryStore) refundHeld(bidderID string, amount float64) (model.Bidder, error) {
	b, ok := s.bidders[bidderID]
	if !ok {
		return model.Bidder{}, fmt.Errorf("refund bidder %s: %w", bidderID, auctionerrors.ErrBidderNotFound)
	}
	if b.Balance.Held < amount {
		return model.Bidder{}, fmt.Errorf("refund %.2f to bidder %s: %w", amount, bidderID, auctionerrors.ErrInsufficientHeldFunds)
	}
	b.Balance.Held -= amount
	b.Balance.Available += amount
	s.bidders[bidderID] = b
	return b, nil
}

func (s *MemoryStore) Deposit(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deposit(bidderID, amount)
}

func (s *MemoryStore) deposit(bidderID string, amount float64) (model.Bidder, error) {
	b, ok := s.bidders[bidderID]
	if !ok {
		return model.Bidder{}, fmt.Errorf("deposit for bidder %s: %w", bidderID, auctionerrors.ErrBidderNotFound)
	}
	b.Balance.Available += amount
	s.bidders[bidderID] = b
	return b, nil
}

// ---- leases ----

func (s *MemoryStore) PutLease(ctx context.Context, key, ownerID string, expiresAt, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLease(key, ownerID, expiresAt, now)
}

func (s *MemoryStore) putLease(key, ownerID string, expiresAt, now time.Time) error {
	if l, ok := s.leases[key]; ok && l.ExpiresAt.After(now) {
		return fmt.Errorf("put lease %s: %w", key, ErrLeaseHeld)
	}
	s.leases[key] = model.Lease{Key: key, OwnerID: ownerID, ExpiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) GetLease(ctx context.Context, key string) (model.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLease(key)
}

func (s *MemoryStore) getLease(key string) (model.Lease, error) {
	l, ok := s.leases[key]
	if !ok {
		return model.Lease{}, fmt.Errorf("get lease %s: %w", key, ErrLeaseNotFound)
	}
	return l, nil
}

func (s *MemoryStore) DeleteLease(ctx context.Context, key, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLease(key, ownerID)
}

func (s *MemoryStore) deleteLease(key, ownerID string) error {
	if l, ok := s.leases[key]; ok && l.OwnerID == ownerID {
		delete(s.leases, key)
	}
	return nil
}

// ---- transactions ----

// WithTx holds the write lock for the whole callback and restores a snapshot
// of every map if fn fails, so partial effects are never visible.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	auctions  map[string]model.Auction
	bids      map[string]model.Bid
	bidders   map[string]model.Bidder
	leases    map[string]model.Lease
	usernames map[string]string
}

func (s *MemoryStore) snapshot() memSnapshot {
	snap := memSnapshot{
		auctions:  make(map[string]model.Auction, len(s.auctions)),
		bids:      make(map[string]model.Bid, len(s.bids)),
		bidders:   make(map[string]model.Bidder, len(s.bidders)),
		leases:    make(map[string]model.Lease, len(s.leases)),
		usernames: make(map[string]string, len(s.usernames)),
	}
	for k, v := range s.auctions {
		snap.auctions[k] = v
	}
	for k, v := range s.bids {
		snap.bids[k] = v
	}
	for k, v := range s.bidders {
		snap.bidders[k] = v
	}
	for k, v := range s.leases {
		snap.leases[k] = v
	}
	for k, v := range s.usernames {
		snap.usernames[k] = v
	}
	return snap
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.auctions = snap.auctions
	s.bids = snap.bids
	s.bidders = snap.bidders
	s.leases = snap.leases
	s.usernames = snap.usernames
}

// memTx is the transactional view handed to WithTx callbacks. The enclosing
// WithTx already holds the write lock, so it calls the unlocked methods.
type memTx struct {
	s *MemoryStore
}

func (t *memTx) CreateAuction(ctx context.Context, a *model.Auction) error { return t.s.createAuction(a) }
func (t *memTx) GetAuction(ctx context.Context, id string) (model.Auction, error) {
	return t.s.getAuction(id)
}
func (t *memTx) ListAuctions(ctx context.Context) ([]model.Auction, error) { return t.s.listAuctions() }
func (t *memTx) UpdateAuction(ctx context.Context, a model.Auction) error  { return t.s.updateAuction(a) }
func (t *memTx) FindScheduledDue(ctx context.Context, now time.Time) ([]model.Auction, error) {
	return t.s.findScheduledDue(now)
}
func (t *memTx) FindRoundsDue(ctx context.Context, now time.Time) ([]model.Auction, error) {
	return t.s.findRoundsDue(now)
}
func (t *memTx) ExtendRound(ctx context.Context, auctionID string, by time.Duration) (model.Auction, bool, error) {
	return t.s.extendRound(auctionID, by)
}
func (t *memTx) CreateBid(ctx context.Context, b *model.Bid) error { return t.s.createBid(b) }
func (t *memTx) UpdateBid(ctx context.Context, b model.Bid) error  { return t.s.updateBid(b) }
func (t *memTx) ActiveBid(ctx context.Context, auctionID, bidderID string) (model.Bid, error) {
	return t.s.activeBid(auctionID, bidderID)
}
func (t *memTx) TopActiveBids(ctx context.Context, auctionID string, limit int) ([]model.Bid, error) {
	return t.s.topActiveBids(auctionID, limit)
}
func (t *memTx) CountActiveBids(ctx context.Context, auctionID string) (int, error) {
	return t.s.countActiveBids(auctionID)
}
func (t *memTx) CountBidsRankedAbove(ctx context.Context, auctionID string, amount float64, createdAt time.Time) (int, error) {
	return t.s.countBidsRankedAbove(auctionID, amount, createdAt)
}
func (t *memTx) WonBids(ctx context.Context, auctionID string) ([]model.Bid, error) {
	return t.s.wonBids(auctionID)
}
func (t *memTx) BidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	return t.s.bidsByAuction(auctionID)
}
func (t *memTx) BidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error) {
	return t.s.bidsByBidder(bidderID)
}
func (t *memTx) CreateBidder(ctx context.Context, b *model.Bidder) error { return t.s.createBidder(b) }
func (t *memTx) GetBidder(ctx context.Context, id string) (model.Bidder, error) {
	return t.s.getBidder(id)
}
func (t *memTx) GetBidders(ctx context.Context, ids []string) ([]model.Bidder, error) {
	return t.s.getBidders(ids)
}
func (t *memTx) ListBidders(ctx context.Context) ([]model.Bidder, error) { return t.s.listBidders() }
func (t *memTx) HoldFunds(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	return t.s.holdFunds(bidderID, amount)
}
func (t *memTx) ChargeHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	return t.s.chargeHeld(bidderID, amount)
}
func (t *memTx) RefundHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	return t.s.refundHeld(bidderID, amount)
}
func (t *memTx) Deposit(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	return t.s.deposit(bidderID, amount)
}
func (t *memTx) PutLease(ctx context.Context, key, ownerID string, expiresAt, now time.Time) error {
	return t.s.putLease(key, ownerID, expiresAt, now)
}
func (t *memTx) GetLease(ctx context.Context, key string) (model.Lease, error) {
	return t.s.getLease(key)
}
func (t *memTx) DeleteLease(ctx context.Context, key, ownerID string) error {
	return t.s.deleteLease(key, ownerID)
}

// Nested transactions join the enclosing one.
func (t *memTx) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, t)
}
