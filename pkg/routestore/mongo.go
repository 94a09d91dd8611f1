package routestore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/route"
)

// MongoConfig configures the MongoDB-backed store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one document per route with the points embedded as an
// array, appended with $push.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRoute struct {
	ID     string        `bson:"_id"`
	Points []route.Point `bson:"points"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperr.Wrap(apperr.CodeInternal, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Append pushes points onto the route document, creating it if needed.
func (s *MongoStore) Append(ctx context.Context, routeID string, points []route.Point) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": routeID},
		bson.M{"$push": bson.M{"points": bson.M{"$each": points}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "append to route %s", routeID)
	}
	return nil
}

// Get returns all points of the route.
func (s *MongoStore) Get(ctx context.Context, routeID string) ([]route.Point, error) {
	var doc mongoRoute
	err := s.coll.FindOne(ctx, bson.M{"_id": routeID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.CodeNotFound, "route %s", routeID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "read route %s", routeID)
	}
	return doc.Points, nil
}

// List returns the ids of all stored routes.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	raw, err := s.coll.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "list routes")
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
