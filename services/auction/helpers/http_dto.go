package helpers

import (
	"time"

	model "gift-auctions/internal/models"
)

// Request DTOs
type CreateAuctionRequest struct {
	Name                     string     `json:"name" binding:"required"`
	Description              string     `json:"description"`
	TotalRounds              int        `json:"total_rounds" binding:"required,gte=1"`
	FirstRoundDuration       int        `json:"first_round_duration" binding:"required,gte=1"`
	RegularRoundDuration     int        `json:"regular_round_duration" binding:"required,gte=1"`
	MinBid                   float64    `json:"min_bid" binding:"omitempty,gt=0"`
	MinBidIncrement          float64    `json:"min_bid_increment" binding:"omitempty,gt=0"`
	ItemsPerRound            int        `json:"items_per_round" binding:"required,gte=1"`
	TotalItems               int        `json:"total_items" binding:"required,gte=1"`
	ScheduledStartTime       *time.Time `json:"scheduled_start_time"`
	AntiSnipingThreshold     int        `json:"anti_sniping_threshold" binding:"omitempty,gte=1"`
	AntiSnipingExtension     int        `json:"anti_sniping_extension" binding:"omitempty,gte=1"`
	MaxAntiSnipingExtensions int        `json:"max_anti_sniping_extensions" binding:"omitempty,gte=0"`
}

type PlaceBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	BidderID  string  `json:"bidder_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type CreateBidderRequest struct {
	Username string  `json:"username" binding:"required"`
	Balance  float64 `json:"balance" binding:"omitempty,gte=0"`
}

type DepositRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Response DTOs
type AuctionResponse struct {
	model.Auction
	TimeRemaining *int `json:"time_remaining"`
}

type PlaceBidResponse struct {
	Bid                  model.Bid `json:"bid"`
	Rank                 int       `json:"rank"`
	AntiSnipingTriggered bool      `json:"anti_sniping_triggered"`
}

type CancelAuctionResponse struct {
	RefundedBids int `json:"refunded_bids"`
}

// ToCreateAuctionParams maps the request body onto service parameters.
func (r CreateAuctionRequest) ToCreateAuctionParams() model.CreateAuctionParams {
	return model.CreateAuctionParams{
		Name:                     r.Name,
		Description:              r.Description,
		TotalRounds:              r.TotalRounds,
		FirstRoundDuration:       r.FirstRoundDuration,
		RegularRoundDuration:     r.RegularRoundDuration,
		MinBid:                   r.MinBid,
		MinBidIncrement:          r.MinBidIncrement,
		ItemsPerRound:            r.ItemsPerRound,
		TotalItems:               r.TotalItems,
		ScheduledStartTime:       r.ScheduledStartTime,
		AntiSnipingThreshold:     r.AntiSnipingThreshold,
		AntiSnipingExtension:     r.AntiSnipingExtension,
		MaxAntiSnipingExtensions: r.MaxAntiSnipingExtensions,
	}
}
