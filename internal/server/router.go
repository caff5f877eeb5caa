package server

import (
	auction "gift-auctions/internal/auctionService"
	bidding "gift-auctions/internal/bidService"
	"gift-auctions/internal/ledger"
	handler "gift-auctions/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService, biddingService *bidding.BiddingService, ledgerService *ledger.Service) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)
	bidHandler := handler.NewBidHandler(biddingService)
	bidderHandler := handler.NewBidderHandler(ledgerService)

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/start", auctionHandler.StartAuctionHandler)
		auctions.POST("/:auction_id/cancel", auctionHandler.CancelAuctionHandler)
		auctions.GET("/:auction_id/leaderboard", auctionHandler.GetLeaderboardHandler)
		auctions.GET("/:auction_id/winners", auctionHandler.GetWinnersHandler)
		auctions.GET("/:auction_id/bids", bidHandler.GetBidsByAuctionHandler)
	}

	bidders := router.Group("/bidders")
	{
		bidders.POST("", bidderHandler.CreateBidderHandler)
		bidders.GET("", bidderHandler.ListBiddersHandler)
		bidders.GET("/:bidder_id", bidderHandler.GetBidderHandler)
		bidders.POST("/:bidder_id/deposit", bidderHandler.DepositHandler)
		bidders.GET("/:bidder_id/bids", bidHandler.GetBidsByBidderHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", bidHandler.PlaceBidHandler)
	}

	return router
}
