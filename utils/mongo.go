package utils

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/vessel-registry-scraper/models"
)

// VesselStore persists scrape results, one document per URL
type VesselStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectVesselStore dials uri and checks the server answers before
// returning a store bound to database.collection
func ConnectVesselStore(ctx context.Context, uri, database, collection string) (*VesselStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	utilLog.Info().Str("database", database).Str("collection", collection).Msg("Connected to MongoDB")
	return &VesselStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the underlying client
func (s *VesselStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// VesselDocument builds the stored form of a scrape result. Fields keep
// their page order.
func VesselDocument(outcome models.Outcome, scrapedAt time.Time) bson.D {
	fields := bson.D{}
	outcome.Fields.Each(func(name, value string) {
		fields = append(fields, bson.E{Key: name, Value: value})
	})

	doc := bson.D{
		{Key: "url", Value: outcome.URL},
		{Key: "status", Value: outcome.Kind.String()},
		{Key: "scraped_at", Value: scrapedAt.UTC()},
		{Key: "fields", Value: fields},
	}
	if outcome.Err != nil {
		doc = append(doc, bson.E{Key: "error", Value: outcome.Err.Error()})
	}
	if len(outcome.ConsoleErrors) > 0 {
		doc = append(doc, bson.E{Key: "console_errors", Value: outcome.ConsoleErrors})
	}
	return doc
}

// Save upserts the latest result for a URL
func (s *VesselStore) Save(ctx context.Context, outcome models.Outcome) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.D{{Key: "url", Value: outcome.URL}}
	update := bson.D{{Key: "$set", Value: VesselDocument(outcome, time.Now())}}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", outcome.URL, err)
	}
	return nil
}
