package handler

import (
	"context"
	"fmt"
	"net/http"

	model "gift-auctions/internal/models"
	"gift-auctions/services/auction/helpers"
	"gift-auctions/utils"

	"github.com/gin-gonic/gin"
)

type LedgerServiceInterface interface {
	CreateBidder(ctx context.Context, username string, balance float64) (model.Bidder, error)
	GetBidder(ctx context.Context, bidderID string) (model.Bidder, error)
	ListBidders(ctx context.Context) ([]model.Bidder, error)
	Deposit(ctx context.Context, bidderID string, amount float64) (model.Bidder, error)
}

type BidderHandler struct {
	service LedgerServiceInterface
}

func NewBidderHandler(service LedgerServiceInterface) *BidderHandler {
	return &BidderHandler{service: service}
}

// CreateBidderHandler handles POST /bidders
func (h *BidderHandler) CreateBidderHandler(c *gin.Context) {
	var req helpers.CreateBidderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateBidderHandler", err)
		return
	}

	bidder, err := h.service.CreateBidder(c.Request.Context(), req.Username, req.Balance)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateBidderHandler: failed to create bidder", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bidder, "bidder created successfully")
	helpers.LogSuccess("CreateBidderHandler", "bidder created successfully", map[string]any{
		"bidder_id": bidder.BidderID,
		"username":  bidder.Username,
	})
}

// ListBiddersHandler handles GET /bidders
func (h *BidderHandler) ListBiddersHandler(c *gin.Context) {
	bidders, err := h.service.ListBidders(c.Request.Context())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListBiddersHandler: error retrieving bidders", map[string]any{"error": err.Error()})
		return
	}

	if bidders == nil {
		bidders = []model.Bidder{}
	}
	utils.JSONResponse(c, http.StatusOK, bidders, "bidders retrieved successfully")
}

// GetBidderHandler handles GET /bidders/:bidder_id
func (h *BidderHandler) GetBidderHandler(c *gin.Context) {
	bidderID := c.Param("bidder_id")
	bidder, err := h.service.GetBidder(c.Request.Context(), bidderID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidderHandler: error retrieving bidder", map[string]any{"bidder_id": bidderID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, bidder, "bidder retrieved successfully")
}

// DepositHandler handles POST /bidders/:bidder_id/deposit
func (h *BidderHandler) DepositHandler(c *gin.Context) {
	bidderID := c.Param("bidder_id")
	var req helpers.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "DepositHandler", err)
		return
	}

	bidder, err := h.service.Deposit(c.Request.Context(), bidderID, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("DepositHandler: failed to deposit", map[string]any{
			"bidder_id": bidderID,
			"amount":    req.Amount,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, bidder, "deposit applied successfully")
	helpers.LogSuccess("DepositHandler", "deposit applied successfully", map[string]any{
		"bidder_id": bidder.BidderID,
		"amount":    req.Amount,
		"available": bidder.Balance.Available,
	})
}
