package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/patchwire/patchwire/pkg/document"
	"github.com/patchwire/patchwire/pkg/errors"
)

// MongoStore persists documents in a MongoDB collection, one document per
// patch, keyed by GUID in the _id field.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// connectTimeout bounds the initial connection handshake.
const connectTimeout = 10 * time.Second

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping. The collection is created lazily on first write.
func NewMongoStore(ctx context.Context, uri, db, collection string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(db).Collection(collection),
	}, nil
}

// Put saves a document, overwriting any existing one with the same ID.
func (s *MongoStore) Put(ctx context.Context, d *document.Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save document %s", d.ID)
	}
	return nil
}

// Get loads a document by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*document.Document, error) {
	var d document.Document
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load document %s", id)
	}
	return &d, nil
}

// Delete removes a document by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	return nil
}

// List returns summaries of all stored documents, most recently updated
// first. The projection keeps graphs out of the wire format.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1, "updated_at": 1, "graph.nodes.id": 1}).
		SetSort(bson.M{"updated_at": -1})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list documents")
	}
	defer cursor.Close(ctx)

	var out []Summary
	for cursor.Next(ctx) {
		var d document.Document
		if err := cursor.Decode(&d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode document summary")
		}
		out = append(out, Summary{
			ID:        d.ID,
			Name:      d.Name,
			NodeCount: d.Graph.NodeCount(),
			UpdatedAt: d.UpdatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate documents")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements DocumentStore.
var _ DocumentStore = (*MongoStore)(nil)
