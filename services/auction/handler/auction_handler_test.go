package handler

import (
	"net/http"
	"testing"
	"time"

	"gift-auctions/internal/auctionerrors"
	auction "gift-auctions/internal/auctionService"
	model "gift-auctions/internal/models"
	"gift-auctions/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newAuctionRouter(h *AuctionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions", h.CreateAuctionHandler)
	router.GET("/auctions", h.ListAuctionsHandler)
	router.GET("/auctions/:auction_id", h.GetAuctionHandler)
	router.POST("/auctions/:auction_id/start", h.StartAuctionHandler)
	router.POST("/auctions/:auction_id/cancel", h.CancelAuctionHandler)
	router.GET("/auctions/:auction_id/leaderboard", h.GetLeaderboardHandler)
	router.GET("/auctions/:auction_id/winners", h.GetWinnersHandler)
	return router
}

// Tests CreateAuctionHandler
func TestCreateAuctionHandler(t *testing.T) {
	validBody := helpers.CreateAuctionRequest{
		Name:                 "gift drop",
		TotalRounds:          3,
		FirstRoundDuration:   60,
		RegularRoundDuration: 30,
		ItemsPerRound:        2,
		TotalItems:           6,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: validBody,
			mockSetup: func(m *MockAuctionServiceInterface) {
				created := model.Auction{AuctionID: "a1", Name: "gift drop", Status: model.AuctionStatusDraft}
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil)
				m.EXPECT().TimeRemaining(created).Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{broken`,
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "missing_name",
			requestBody: func() helpers.CreateAuctionRequest {
				b := validBody
				b.Name = ""
				return b
			}(),
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "zero_rounds",
			requestBody: func() helpers.CreateAuctionRequest {
				b := validBody
				b.TotalRounds = 0
				return b
			}(),
			mockSetup:      func(m *MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_rejects_params",
			requestBody: validBody,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Auction{}, auctionerrors.ErrInvalidParams)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid parameters",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAuctionServiceInterface(ctrl)
			tc.mockSetup(mockService)
			router := newAuctionRouter(NewAuctionHandler(mockService))

			w := performRequest(t, router, http.MethodPost, "/auctions", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			envelope := parseEnvelope(t, w)
			require.Contains(t, envelope["message"], tc.expectedMsg)
		})
	}
}

func TestGetAuctionHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remaining := 42
	end := time.Now().UTC().Add(42 * time.Second)
	a := model.Auction{AuctionID: "a1", Name: "gift drop", Status: model.AuctionStatusActive, CurrentRound: 1, RoundEndTime: &end}

	mockService := NewMockAuctionServiceInterface(ctrl)
	mockService.EXPECT().GetByID(gomock.Any(), "a1").Return(a, nil)
	mockService.EXPECT().TimeRemaining(a).Return(&remaining)
	router := newAuctionRouter(NewAuctionHandler(mockService))

	w := performRequest(t, router, http.MethodGet, "/auctions/a1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := parseEnvelope(t, w)
	data := envelope["data"].(map[string]any)
	require.Equal(t, "a1", data["auction_id"])
	require.Equal(t, 42.0, data["time_remaining"])
}

func TestGetAuctionHandler_NotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	mockService.EXPECT().GetByID(gomock.Any(), "missing").Return(model.Auction{}, auctionerrors.ErrAuctionNotFound)
	router := newAuctionRouter(NewAuctionHandler(mockService))

	w := performRequest(t, router, http.MethodGet, "/auctions/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// Tests StartAuctionHandler
func TestStartAuctionHandler(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success",
			mockSetup: func(m *MockAuctionServiceInterface) {
				end := time.Now().UTC().Add(time.Minute)
				started := model.Auction{AuctionID: "a1", Status: model.AuctionStatusActive, CurrentRound: 1, RoundEndTime: &end}
				remaining := 60
				m.EXPECT().Start(gomock.Any(), "a1").Return(started, nil)
				m.EXPECT().TimeRemaining(started).Return(&remaining)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction started successfully",
		},
		{
			name: "already_active",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Start(gomock.Any(), "a1").Return(model.Auction{}, auctionerrors.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "auction state does not allow this operation",
		},
		{
			name: "concurrent_start",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().Start(gomock.Any(), "a1").Return(model.Auction{}, auctionerrors.ErrContended)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "operation already in progress",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockAuctionServiceInterface(ctrl)
			tc.mockSetup(mockService)
			router := newAuctionRouter(NewAuctionHandler(mockService))

			w := performRequest(t, router, http.MethodPost, "/auctions/a1/start", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			envelope := parseEnvelope(t, w)
			require.Contains(t, envelope["message"], tc.expectedMsg)
		})
	}
}

func TestCancelAuctionHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	mockService.EXPECT().Cancel(gomock.Any(), "a1").Return(3, nil)
	router := newAuctionRouter(NewAuctionHandler(mockService))

	w := performRequest(t, router, http.MethodPost, "/auctions/a1/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := parseEnvelope(t, w)
	data := envelope["data"].(map[string]any)
	require.Equal(t, 3.0, data["refunded_bids"])
}

func TestGetLeaderboardHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	mockService.EXPECT().Leaderboard(gomock.Any(), "a1").Return([]auction.LeaderboardEntry{
		{BidderID: "b1", Username: "alice", Amount: 150, Rank: 1, IsWinningPosition: true},
		{BidderID: "b2", Username: "bob", Amount: 100, Rank: 2, IsWinningPosition: false},
	}, nil)
	router := newAuctionRouter(NewAuctionHandler(mockService))

	w := performRequest(t, router, http.MethodGet, "/auctions/a1/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := parseEnvelope(t, w)
	data := envelope["data"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	require.Equal(t, "alice", first["username"])
	require.Equal(t, true, first["is_winning_position"])
}

func TestGetWinnersHandler_EmptyResult(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	mockService.EXPECT().Winners(gomock.Any(), "a1").Return(nil, nil)
	router := newAuctionRouter(NewAuctionHandler(mockService))

	w := performRequest(t, router, http.MethodGet, "/auctions/a1/winners", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := parseEnvelope(t, w)
	data, ok := envelope["data"].([]any)
	require.True(t, ok, "data should be a JSON array")
	require.Empty(t, data)
}
