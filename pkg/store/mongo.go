package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/transit"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "meteo"

const mongoCollection = "datasets"

// MongoStore keeps datasets in a MongoDB collection, one document per name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoDoc struct {
	Info `bson:",inline"`
	Data []byte `bson:"data"`
}

// NewMongoStore connects to uri and ensures the unique name index.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store URI is empty")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(mongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create name index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

// Save upserts ds under name.
func (s *MongoStore) Save(ctx context.Context, name string, ds *transit.Dataset) (Info, error) {
	data, info, err := encode(name, ds)
	if err != nil {
		return Info{}, err
	}
	now := s.now().UTC().Truncate(time.Millisecond)

	update := bson.M{
		"$set": bson.M{
			"hash":       info.Hash,
			"lines":      info.Lines,
			"stations":   info.Stations,
			"data":       data,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"data": 0})

	var saved Info
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&saved)
	if err != nil {
		return Info{}, fmt.Errorf("save dataset %q: %w", name, err)
	}
	return saved, nil
}

// Load returns the dataset stored under name.
func (s *MongoStore) Load(ctx context.Context, name string) (*transit.Dataset, Info, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, Info{}, notFound(name)
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("load dataset %q: %w", name, err)
	}
	ds, err := decode(name, doc.Data)
	if err != nil {
		return nil, Info{}, err
	}
	return ds, doc.Info, nil
}

// List returns all stored datasets ordered by name.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	out := []Info{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return out, nil
}

// Delete removes the dataset stored under name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
