package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// Defaults for MongoConfig fields left empty.
const (
	DefaultMongoDatabase   = "nodeforest"
	DefaultMongoCollection = "forests"
	DefaultMongoDocument   = "default"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Document   string `toml:"document"`
}

// mongoDocument stores a whole forest; its _id names the forest.
type mongoDocument struct {
	ID        string        `bson:"_id"`
	Nodes     []forest.Node `bson:"nodes"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// MongoRepository keeps the node list in one document so a write is a
// single atomic ReplaceOne.
type MongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	docID  string
}

// NewMongoRepository connects to MongoDB and verifies the connection.
func NewMongoRepository(ctx context.Context, cfg MongoConfig) (*MongoRepository, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo repository: uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	if cfg.Document == "" {
		cfg.Document = DefaultMongoDocument
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	err = retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoRepository{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		docID:  cfg.Document,
	}, nil
}

// Read loads the forest document. A missing document reads as an empty list.
func (m *MongoRepository) Read(ctx context.Context) ([]forest.Node, error) {
	var doc mongoDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": m.docID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []forest.Node{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find forest %q: %w", m.docID, err)
	}
	return nonNil(doc.Nodes), nil
}

// Write upserts the forest document.
func (m *MongoRepository) Write(ctx context.Context, nodes []forest.Node) error {
	doc := mongoDocument{ID: m.docID, Nodes: nonNil(nodes), UpdatedAt: time.Now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": m.docID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace forest %q: %w", m.docID, err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Repository = (*MongoRepository)(nil)
