package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gift-auctions/internal/auctionerrors"
	model "gift-auctions/internal/models"
)

// MongoStore implements Store on a MongoDB replica set. Conditional updates
// are single findOneAndUpdate round trips whose filter carries the predicate,
// and WithTx maps to a session transaction, so multiple process instances can
// share one database safely.
type MongoStore struct {
	client   *mongo.Client
	auctions *mongo.Collection
	bids     *mongo.Collection
	bidders  *mongo.Collection
	leases   *mongo.Collection
}

// NewMongoStore connects to the given URI, verifies the connection, and
// ensures the indexes the store relies on: a unique index on usernames and a
// TTL index that reaps expired leases.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("store: ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:   client,
		auctions: db.Collection("auctions"),
		bids:     db.Collection("bids"),
		bidders:  db.Collection("bidders"),
		leases:   db.Collection("leases"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.bidders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("store: create username index: %w", err)
	}

	_, err = s.leases.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("store: create lease ttl index: %w", err)
	}

	_, err = s.bids.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "auctionId", Value: 1}, {Key: "status", Value: 1}, {Key: "amount", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("store: create bid index: %w", err)
	}
	return nil
}

// Disconnect closes the underlying client connection.
func (s *MongoStore) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ---- auctions ----

func (s *MongoStore) CreateAuction(ctx context.Context, a *model.Auction) error {
	if _, err := s.auctions.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("store: insert auction %s: %w", a.AuctionID, err)
	}
	return nil
}

func (s *MongoStore) GetAuction(ctx context.Context, id string) (model.Auction, error) {
	var a model.Auction
	err := s.auctions.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", id, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("store: get auction %s: %w", id, err)
	}
	return a, nil
}

func (s *MongoStore) ListAuctions(ctx context.Context) ([]model.Auction, error) {
	return s.findAuctions(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: 1}})
}

func (s *MongoStore) UpdateAuction(ctx context.Context, a model.Auction) error {
	res, err := s.auctions.ReplaceOne(ctx, bson.M{"_id": a.AuctionID}, a)
	if err != nil {
		return fmt.Errorf("store: update auction %s: %w", a.AuctionID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	return nil
}

func (s *MongoStore) FindScheduledDue(ctx context.Context, now time.Time) ([]model.Auction, error) {
	filter := bson.M{
		"status":             model.AuctionStatusScheduled,
		"scheduledStartTime": bson.M{"$lte": now},
	}
	return s.findAuctions(ctx, filter, bson.D{{Key: "scheduledStartTime", Value: 1}})
}

func (s *MongoStore) FindRoundsDue(ctx context.Context, now time.Time) ([]model.Auction, error) {
	filter := bson.M{
		"status":       model.AuctionStatusActive,
		"roundEndTime": bson.M{"$lte": now},
	}
	return s.findAuctions(ctx, filter, bson.D{{Key: "roundEndTime", Value: 1}})
}

func (s *MongoStore) findAuctions(ctx context.Context, filter bson.M, sort bson.D) ([]model.Auction, error) {
	cur, err := s.auctions.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("store: find auctions: %w", err)
	}
	var out []model.Auction
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("store: decode auctions: %w", err)
	}
	return out, nil
}

// ExtendRound uses a pipeline update so the new deadline is computed from the
// stored roundEndTime inside the server, keeping predicate and mutation in a
// single round trip.
func (s *MongoStore) ExtendRound(ctx context.Context, auctionID string, by time.Duration) (model.Auction, bool, error) {
	filter := bson.M{
		"_id":          auctionID,
		"status":       model.AuctionStatusActive,
		"roundEndTime": bson.M{"$exists": true},
		"$expr":        bson.M{"$lt": bson.A{"$antiSnipingCount", "$maxAntiSnipingExtensions"}},
	}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"roundEndTime": bson.M{"$dateAdd": bson.M{
			"startDate": "$roundEndTime",
			"unit":      "millisecond",
			"amount":    by.Milliseconds(),
		}},
		"antiSnipingCount": bson.M{"$add": bson.A{"$antiSnipingCount", 1}},
	}}}}

	var a model.Auction
	err := s.auctions.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := s.GetAuction(ctx, auctionID)
		if getErr != nil {
			return model.Auction{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return model.Auction{}, false, fmt.Errorf("store: extend round for auction %s: %w", auctionID, err)
	}
	return a, true, nil
}

// ---- bids ----

func (s *MongoStore) CreateBid(ctx context.Context, b *model.Bid) error {
	if _, err := s.bids.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("store: insert bid %s: %w", b.BidID, err)
	}
	return nil
}

func (s *MongoStore) UpdateBid(ctx context.Context, b model.Bid) error {
	res, err := s.bids.ReplaceOne(ctx, bson.M{"_id": b.BidID}, b)
	if err != nil {
		return fmt.Errorf("store: update bid %s: %w", b.BidID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update bid %s: %w", b.BidID, auctionerrors.ErrBidNotFound)
	}
	return nil
}

func (s *MongoStore) ActiveBid(ctx context.Context, auctionID, bidderID string) (model.Bid, error) {
	filter := bson.M{"auctionId": auctionID, "bidderId": bidderID, "status": model.BidStatusActive}
	var b model.Bid
	err := s.bids.FindOne(ctx, filter).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Bid{}, fmt.Errorf("active bid for bidder %s in auction %s: %w", bidderID, auctionID, auctionerrors.ErrBidNotFound)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("store: find active bid: %w", err)
	}
	return b, nil
}

func (s *MongoStore) TopActiveBids(ctx context.Context, auctionID string, limit int) ([]model.Bid, error) {
	filter := bson.M{"auctionId": auctionID, "status": model.BidStatusActive}
	opts := options.Find().SetSort(bson.D{{Key: "amount", Value: -1}, {Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.findBids(ctx, filter, opts)
}

func (s *MongoStore) CountActiveBids(ctx context.Context, auctionID string) (int, error) {
	n, err := s.bids.CountDocuments(ctx, bson.M{"auctionId": auctionID, "status": model.BidStatusActive})
	if err != nil {
		return 0, fmt.Errorf("store: count active bids for auction %s: %w", auctionID, err)
	}
	return int(n), nil
}

func (s *MongoStore) CountBidsRankedAbove(ctx context.Context, auctionID string, amount float64, createdAt time.Time) (int, error) {
	filter := bson.M{
		"auctionId": auctionID,
		"status":    model.BidStatusActive,
		"$or": bson.A{
			bson.M{"amount": bson.M{"$gt": amount}},
			bson.M{"amount": amount, "createdAt": bson.M{"$lt": createdAt}},
		},
	}
	n, err := s.bids.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("store: count ranked bids for auction %s: %w", auctionID, err)
	}
	return int(n), nil
}

func (s *MongoStore) WonBids(ctx context.Context, auctionID string) ([]model.Bid, error) {
	filter := bson.M{"auctionId": auctionID, "status": model.BidStatusWon}
	opts := options.Find().SetSort(bson.D{{Key: "wonInRound", Value: 1}, {Key: "amount", Value: -1}})
	return s.findBids(ctx, filter, opts)
}

func (s *MongoStore) BidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error) {
	return s.findBids(ctx, bson.M{"auctionId": auctionID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *MongoStore) BidsByBidder(ctx context.Context, bidderID string) ([]model.Bid, error) {
	return s.findBids(ctx, bson.M{"bidderId": bidderID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *MongoStore) findBids(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Bid, error) {
	cur, err := s.bids.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("store: find bids: %w", err)
	}
	var out []model.Bid
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("store: decode bids: %w", err)
	}
	return out, nil
}

// ---- bidders ----

func (s *MongoStore) CreateBidder(ctx context.Context, b *model.Bidder) error {
	_, err := s.bidders.InsertOne(ctx, b)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("create bidder %q: %w", b.Username, auctionerrors.ErrDuplicateUsername)
	}
	if err != nil {
		return fmt.Errorf("store: insert bidder %s: %w", b.BidderID, err)
	}
	return nil
}

func (s *MongoStore) GetBidder(ctx context.Context, id string) (model.Bidder, error) {
	var b model.Bidder
	err := s.bidders.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Bidder{}, fmt.Errorf("get bidder %s: %w", id, auctionerrors.ErrBidderNotFound)
	}
	if err != nil {
		return model.Bidder{}, fmt.Errorf("store: get bidder %s: %w", id, err)
	}
	return b, nil
}

func (s *MongoStore) GetBidders(ctx context.Context, ids []string) ([]model.Bidder, error) {
	if len(ids) == 0 {
		return []model.Bidder{}, nil
	}
	return s.findBidders(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) ListBidders(ctx context.Context) ([]model.Bidder, error) {
	return s.findBidders(ctx, bson.M{})
}

func (s *MongoStore) findBidders(ctx context.Context, filter bson.M) ([]model.Bidder, error) {
	cur, err := s.bidders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("store: find bidders: %w", err)
	}
	var out []model.Bidder
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("store: decode bidders: %w", err)
	}
	return out, nil
}

func (s *MongoStore) HoldFunds(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	filter := bson.M{"_id": bidderID, "balance.available": bson.M{"$gte": amount}}
	update := bson.M{"$inc": bson.M{"balance.available": -amount, "balance.held": amount}}
	return s.conditionalBalanceUpdate(ctx, bidderID, filter, update, auctionerrors.ErrInsufficientFunds)
}

func (s *MongoStore) ChargeHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	filter := bson.M{"_id": bidderID, "balance.held": bson.M{"$gte": amount}}
	update := bson.M{"$inc": bson.M{"balance.held": -amount}}
	return s.conditionalBalanceUpdate(ctx, bidderID, filter, update, auctionerrors.ErrInsufficientHeldFunds)
}

func (s *MongoStore) RefundHeld(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	filter := bson.M{"_id": bidderID, "balance.held": bson.M{"$gte": amount}}
	update := bson.M{"$inc": bson.M{"balance.held": -amount, "balance.available": amount}}
	return s.conditionalBalanceUpdate(ctx, bidderID, filter, update, auctionerrors.ErrInsufficientHeldFunds)
}

func (s *MongoStore) Deposit(ctx context.Context, bidderID string, amount float64) (model.Bidder, error) {
	filter := bson.M{"_id": bidderID}
	update := bson.M{"$inc": bson.M{"balance.available": amount}}
	return s.conditionalBalanceUpdate(ctx, bidderID, filter, update, nil)
}

// conditionalBalanceUpdate applies a predicate-guarded balance mutation in one
// round trip. When the predicate does not match, a follow-up read tells a
// missing bidder apart from unmet funds.
func (s *MongoStore) conditionalBalanceUpdate(ctx context.Context, bidderID string, filter, update bson.M, unmet error) (model.Bidder, error) {
	var b model.Bidder
	err := s.bidders.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := s.GetBidder(ctx, bidderID); getErr != nil {
			return model.Bidder{}, getErr
		}
		return model.Bidder{}, fmt.Errorf("balance update for bidder %s: %w", bidderID, unmet)
	}
	if err != nil {
		return model.Bidder{}, fmt.Errorf("store: balance update for bidder %s: %w", bidderID, err)
	}
	return b, nil
}

// ---- leases ----

// PutLease upserts the lease document only when the existing one has already
// expired. An unexpired lease makes the filter miss and the upsert collide on
// _id, which surfaces as a duplicate-key error mapped to ErrLeaseHeld.
func (s *MongoStore) PutLease(ctx context.Context, key, ownerID string, expiresAt, now time.Time) error {
	filter := bson.M{"_id": key, "expiresAt": bson.M{"$lt": now}}
	update := bson.M{"$set": bson.M{"ownerId": ownerID, "expiresAt": expiresAt}}
	_, err := s.leases.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("put lease %s: %w", key, ErrLeaseHeld)
	}
	if err != nil {
		return fmt.Errorf("store: put lease %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) GetLease(ctx context.Context, key string) (model.Lease, error) {
	var l model.Lease
	err := s.leases.FindOne(ctx, bson.M{"_id": key}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Lease{}, fmt.Errorf("get lease %s: %w", key, ErrLeaseNotFound)
	}
	if err != nil {
		return model.Lease{}, fmt.Errorf("store: get lease %s: %w", key, err)
	}
	return l, nil
}

func (s *MongoStore) DeleteLease(ctx context.Context, key, ownerID string) error {
	if _, err := s.leases.DeleteOne(ctx, bson.M{"_id": key, "ownerId": ownerID}); err != nil {
		return fmt.Errorf("store: delete lease %s: %w", key, err)
	}
	return nil
}

// ---- transactions ----

// WithTx runs fn inside a session transaction. Operations inside fn pick up
// the session through the context, so fn receives the same store value.
func (s *MongoStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("store: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}
