package repositories

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zabuzara/project-milestone-dashboard-backend/logging"
)

// EnsureSchema creates the three collections when absent and the indexes backing duplicate
// rejection. Members and projects get unique indexes over the fields their persisted
// documents are compared on, so concurrent creates cannot both succeed.
func EnsureSchema(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range []string{ProjectCollection, MilestoneCollection, MemberCollection} {
		if slices.Contains(existing, name) {
			continue
		}
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		logging.Logger.Infof("Event ID: DB_COLLECTION_CREATED, Description: Created collection %s/%s", db.Name(), name)
	}

	indexes := map[string]mongo.IndexModel{
		MemberCollection: {
			Keys:    bson.D{{Key: "firstname", Value: 1}, {Key: "lastname", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("member_identity"),
		},
		ProjectCollection: {
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("project_identity"),
		},
		MilestoneCollection: {
			Keys:    bson.D{{Key: "projectReference", Value: 1}},
			Options: options.Index().SetName("milestone_project"),
		},
	}
	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	logging.Logger.Info("Event ID: DB_INDEXES_READY, Description: Collection indexes ensured")
	return nil
}
