package models

import "time"

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	AuctionStatusDraft     AuctionStatus = "DRAFT"
	AuctionStatusScheduled AuctionStatus = "SCHEDULED"
	AuctionStatusActive    AuctionStatus = "ACTIVE"
	AuctionStatusCompleted AuctionStatus = "COMPLETED"
	AuctionStatusCancelled AuctionStatus = "CANCELLED"
)

// BidStatus is the lifecycle state of a bid.
type BidStatus string

const (
	BidStatusActive BidStatus = "ACTIVE"
	BidStatusWon    BidStatus = "WON"
	BidStatusLost   BidStatus = "LOST"
)

// Balance holds a bidder's funds split between spendable and escrowed amounts.
type Balance struct {
	Available float64 `json:"available" bson:"available"`
	Held      float64 `json:"held" bson:"held"`
}

// Bidder represents a participant in the auction system
type Bidder struct {
	BidderID  string    `json:"bidder_id" bson:"_id"`
	Username  string    `json:"username" bson:"username"`
	Balance   Balance   `json:"balance" bson:"balance"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// Auction represents a timed multi-round auction. RoundEndTime and
// ScheduledStartTime are pointers because their absence carries meaning:
// an auction without a RoundEndTime has no running round.
type Auction struct {
	AuctionID            string        `json:"auction_id" bson:"_id"`
	Name                 string        `json:"name" bson:"name"`
	Description          string        `json:"description,omitempty" bson:"description,omitempty"`
	TotalRounds          int           `json:"total_rounds" bson:"totalRounds"`
	FirstRoundDuration   int           `json:"first_round_duration" bson:"firstRoundDuration"`
	RegularRoundDuration int           `json:"regular_round_duration" bson:"regularRoundDuration"`
	MinBid               float64       `json:"min_bid" bson:"minBid"`
	MinBidIncrement      float64       `json:"min_bid_increment" bson:"minBidIncrement"`
	ItemsPerRound        int           `json:"items_per_round" bson:"itemsPerRound"`
	TotalItems           int           `json:"total_items" bson:"totalItems"`
	ItemsDistributed     int           `json:"items_distributed" bson:"itemsDistributed"`
	CurrentRound         int           `json:"current_round" bson:"currentRound"`
	Status               AuctionStatus `json:"status" bson:"status"`
	ScheduledStartTime   *time.Time    `json:"scheduled_start_time,omitempty" bson:"scheduledStartTime,omitempty"`
	RoundEndTime         *time.Time    `json:"round_end_time,omitempty" bson:"roundEndTime,omitempty"`

	// Anti-sniping: seconds before round end that arm the rule, how far a
	// single extension pushes the deadline, and the per-round extension cap.
	AntiSnipingThreshold     int `json:"anti_sniping_threshold" bson:"antiSnipingThreshold"`
	AntiSnipingExtension     int `json:"anti_sniping_extension" bson:"antiSnipingExtension"`
	AntiSnipingCount         int `json:"anti_sniping_count" bson:"antiSnipingCount"`
	MaxAntiSnipingExtensions int `json:"max_anti_sniping_extensions" bson:"maxAntiSnipingExtensions"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// Bid represents a bidder's standing offer in an auction. A bidder has at
// most one ACTIVE bid per auction; raising replaces the amount in place.
type Bid struct {
	BidID      string    `json:"bid_id" bson:"_id"`
	AuctionID  string    `json:"auction_id" bson:"auctionId"`
	BidderID   string    `json:"bidder_id" bson:"bidderId"`
	Amount     float64   `json:"amount" bson:"amount"`
	Status     BidStatus `json:"status" bson:"status"`
	Round      int       `json:"round" bson:"round"`
	WonInRound int       `json:"won_in_round,omitempty" bson:"wonInRound,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
}

// Lease is a time-boxed mutual-exclusion record shared through the store.
// A lease is live until ExpiresAt; only its owner may delete it early.
type Lease struct {
	Key       string    `json:"key" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"ownerId"`
	ExpiresAt time.Time `json:"expires_at" bson:"expiresAt"`
}

// CreateAuctionParams carries the caller-supplied fields for a new auction.
type CreateAuctionParams struct {
	Name                     string
	Description              string
	TotalRounds              int
	FirstRoundDuration       int
	RegularRoundDuration     int
	MinBid                   float64
	MinBidIncrement          float64
	ItemsPerRound            int
	TotalItems               int
	ScheduledStartTime       *time.Time
	AntiSnipingThreshold     int
	AntiSnipingExtension     int
	MaxAntiSnipingExtensions int
}
