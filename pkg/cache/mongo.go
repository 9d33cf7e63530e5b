package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a [MongoCache].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoCache stores entries as documents with an expires_at field. A TTL
// index lets the server reap expired documents; Get also checks expiry
// because the reaper only runs about once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// NewMongoCache connects to MongoDB, pings the server and ensures the TTL
// index exists.
func NewMongoCache(ctx context.Context, cfg MongoConfig) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	c, err := NewMongoCacheFromCollection(ctx, client.Database(cfg.Database).Collection(cfg.Collection))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	c.client = client
	c.owned = true
	return c, nil
}

// NewMongoCacheFromCollection wraps an existing collection. The caller keeps
// ownership of the client.
func NewMongoCacheFromCollection(ctx context.Context, coll *mongo.Collection) (*MongoCache, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("mongo ttl index: %w", err)
	}
	return &MongoCache{coll: coll}, nil
}

// Get retrieves a value from the cache.
func (m *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set upserts a value. A ttl <= 0 stores the entry with [TTLAdvisory].
func (m *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLAdvisory
	}
	entry := mongoEntry{Key: key, Data: data, ExpiresAt: time.Now().Add(ttl).UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

// Delete removes a value from the cache.
func (m *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Close disconnects the client if the cache created it.
func (m *MongoCache) Close() error {
	if !m.owned || m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Cache = (*MongoCache)(nil)
