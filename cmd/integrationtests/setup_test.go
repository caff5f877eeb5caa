package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "gift-auctions/internal/auctionService"
	bidding "gift-auctions/internal/bidService"
	"gift-auctions/internal/ledger"
	"gift-auctions/internal/locker"
	"gift-auctions/internal/server"
	"gift-auctions/internal/store"

	"github.com/gin-gonic/gin"
)

// TestEnv bundles the wired application pieces an integration test needs.
type TestEnv struct {
	Router         *gin.Engine
	Store          *store.MemoryStore
	AuctionService *auction.AuctionService
}

// SetupTestEnv wires the full service stack over an in-memory store, exactly
// as main does minus the HTTP listener and the scheduler.
func SetupTestEnv() *TestEnv {
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	lk := locker.New(st, "integration-test", time.Minute)
	auctionService := auction.NewAuctionService(st, lk)
	biddingService := bidding.NewBiddingService(st, lk)
	ledgerService := ledger.NewService(st)

	return &TestEnv{
		Router:         server.SetupRouter(auctionService, biddingService, ledgerService),
		Store:          st,
		AuctionService: auctionService,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the given router and
// parses the JSON envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// data unwraps the envelope's data object.
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response data is not an object: %v", resp)
	}
	return d
}

// dataList unwraps the envelope's data array.
func dataList(t *testing.T, resp map[string]any) []any {
	t.Helper()
	d, ok := resp["data"].([]any)
	if !ok {
		t.Fatalf("response data is not an array: %v", resp)
	}
	return d
}
