package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweetpotato0/slidecraft/errors"
	"github.com/sweetpotato0/slidecraft/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements session storage using MongoDB.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ session.Store = (*MongoStore)(nil)

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns default MongoDB configuration.
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "slidecraft",
		Collection: "sessions",
	}
}

// mongoSession is the internal document shape. The full session travels as a
// JSON payload; the indexed fields exist for listing without decoding it.
type mongoSession struct {
	ID        string `bson:"_id"`
	Topic     string `bson:"topic"`
	Style     string `bson:"style"`
	Slides    int    `bson:"slides"`
	UpdatedAt string `bson:"updated_at"`
	Payload   []byte `bson:"payload"`
}

// NewMongoStore connects to MongoDB and prepares the sessions collection.
func NewMongoStore(config *MongoConfig) (*MongoStore, error) {
	if config == nil {
		config = DefaultMongoConfig()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	store := &MongoStore{
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}

	indexModel := mongo.IndexModel{Keys: bson.D{{Key: "updated_at", Value: -1}}}
	if _, err := store.collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return store, nil
}

func (s *MongoStore) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if err := session.ValidateID(sess.ID); err != nil {
		return err
	}
	sess.Touch()

	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	doc := mongoSession{
		ID:        sess.ID,
		Topic:     sess.Topic,
		Style:     sess.StyleName,
		Slides:    len(sess.Slides),
		UpdatedAt: sess.UpdatedAt,
		Payload:   payload,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": sess.ID}, doc, opts); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (*session.Session, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, err
	}

	var doc mongoSession
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("session %s: %w", id, errors.ErrNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var sess session.Session
	if err := json.Unmarshal(doc.Payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *MongoStore) List(ctx context.Context) ([]session.Summary, error) {
	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"updated_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoSession
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode session list: %w", err)
	}

	out := make([]session.Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, session.Summary{
			ID:      d.ID,
			Topic:   d.Topic,
			Style:   d.Style,
			Slides:  d.Slides,
			Updated: d.UpdatedAt,
		})
	}
	return out, nil
}

func (s *MongoStore) Latest(ctx context.Context) (*session.Session, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return s.Load(ctx, summaries[0].ID)
}

func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := session.ValidateID(id); err != nil {
		return false, err
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// Close disconnects the MongoDB client.
func (s *MongoStore) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.client.Disconnect(ctx)
}

// Ping checks if the MongoDB connection is alive.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
