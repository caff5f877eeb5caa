package handler

import (
	"context"
	"fmt"
	"net/http"

	auction "gift-auctions/internal/auctionService"
	model "gift-auctions/internal/models"
	"gift-auctions/services/auction/helpers"
	"gift-auctions/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	Create(ctx context.Context, params model.CreateAuctionParams) (model.Auction, error)
	GetAll(ctx context.Context) ([]model.Auction, error)
	GetByID(ctx context.Context, auctionID string) (model.Auction, error)
	TimeRemaining(a model.Auction) *int
	Start(ctx context.Context, auctionID string) (model.Auction, error)
	Cancel(ctx context.Context, auctionID string) (int, error)
	Leaderboard(ctx context.Context, auctionID string) ([]auction.LeaderboardEntry, error)
	Winners(ctx context.Context, auctionID string) ([]auction.Winner, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToCreateAuctionParams())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"name":  req.Name,
			"error": err.Error(),
		})
		return
	}

	resp := helpers.AuctionResponse{Auction: created, TimeRemaining: h.service.TimeRemaining(created)}
	utils.JSONResponse(c, http.StatusCreated, resp, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": created.AuctionID,
		"status":     string(created.Status),
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAuctionsHandler: error retrieving auctions", map[string]any{"error": err.Error()})
		return
	}

	resp := make([]helpers.AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, helpers.AuctionResponse{Auction: a, TimeRemaining: h.service.TimeRemaining(a)})
	}
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	a, err := h.service.GetByID(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := helpers.AuctionResponse{Auction: a, TimeRemaining: h.service.TimeRemaining(a)}
	utils.JSONResponse(c, http.StatusOK, resp, "auction retrieved successfully")
}

// StartAuctionHandler handles POST /auctions/:auction_id/start
func (h *AuctionHandler) StartAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	started, err := h.service.Start(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("StartAuctionHandler: failed to start auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.AuctionResponse{Auction: started, TimeRemaining: h.service.TimeRemaining(started)}
	utils.JSONResponse(c, http.StatusOK, resp, "auction started successfully")
	helpers.LogSuccess("StartAuctionHandler", "auction started successfully", map[string]any{
		"auction_id":    started.AuctionID,
		"current_round": started.CurrentRound,
	})
}

// CancelAuctionHandler handles POST /auctions/:auction_id/cancel
func (h *AuctionHandler) CancelAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	refunded, err := h.service.Cancel(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CancelAuctionHandler: failed to cancel auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.CancelAuctionResponse{RefundedBids: refunded}, "auction cancelled successfully")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled successfully", map[string]any{
		"auction_id":    auctionID,
		"refunded_bids": refunded,
	})
}

// GetLeaderboardHandler handles GET /auctions/:auction_id/leaderboard
func (h *AuctionHandler) GetLeaderboardHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	entries, err := h.service.Leaderboard(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetLeaderboardHandler: error retrieving leaderboard", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	if entries == nil {
		entries = []auction.LeaderboardEntry{}
	}
	utils.JSONResponse(c, http.StatusOK, entries, "leaderboard retrieved successfully")
}

// GetWinnersHandler handles GET /auctions/:auction_id/winners
func (h *AuctionHandler) GetWinnersHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	winners, err := h.service.Winners(c.Request.Context(), auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWinnersHandler: error retrieving winners", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	if winners == nil {
		winners = []auction.Winner{}
	}
	utils.JSONResponse(c, http.StatusOK, winners, "winners retrieved successfully")
}
