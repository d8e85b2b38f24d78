// Package history is an append-only archive of normalized readings,
// written by the dispatcher after its repository round trip. This is
// application-layer persistence of already-acked messages, distinct
// from the library-layer message persistence spec.md's Non-goals
// exclude. Grounded on orders/store.go's collection/bson pattern.
package history

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("history: reading not found")

// Record is one archived reading.
type Record struct {
	DeviceID   string
	Temp       float32
	Time       uint64
	RecordedAt time.Time
}

type Store struct {
	collection *mongo.Collection
}

func NewStore(client *mongo.Client) *Store {
	return &Store{collection: client.Database("telemetry").Collection("readings")}
}

// Append inserts r as a new history document; the archive never updates
// or deletes existing records.
func (s *Store) Append(ctx context.Context, r Record) error {
	doc := bson.M{
		"deviceID":   r.DeviceID,
		"temp":       r.Temp,
		"time":       r.Time,
		"recordedAt": r.RecordedAt,
	}

	_, err := s.collection.InsertOne(ctx, doc)
	return err
}

// Latest returns the most recently archived record for deviceID.
func (s *Store) Latest(ctx context.Context, deviceID string) (Record, error) {
	filter := bson.M{"deviceID": deviceID}
	opts := options.FindOne().SetSort(bson.D{{Key: "recordedAt", Value: -1}})

	var doc bson.M
	err := s.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	return Record{
		DeviceID: getString(doc, "deviceID"),
		Temp:     getFloat32(doc, "temp"),
		Time:     getUint64(doc, "time"),
	}, nil
}

func getString(m bson.M, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getFloat32(m bson.M, key string) float32 {
	switch v := m[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	default:
		return 0
	}
}

func getUint64(m bson.M, key string) uint64 {
	switch v := m[key].(type) {
	case int64:
		return uint64(v)
	case int32:
		return uint64(v)
	default:
		return 0
	}
}
