package repositories

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
)

type MilestoneRepository interface {
	GetAll(ctx context.Context) ([]models.Milestone, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Milestone, error)
	GetByName(ctx context.Context, name string) ([]models.Milestone, error)
	GetByDescription(ctx context.Context, description string) ([]models.Milestone, error)
	GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]models.Milestone, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]models.Milestone, error)
	GetByMemberName(ctx context.Context, name string) ([]models.Milestone, error)
	GetByStartAfter(ctx context.Context, t time.Time) ([]models.Milestone, error)
	GetByEndBefore(ctx context.Context, t time.Time) ([]models.Milestone, error)
	Create(ctx context.Context, milestone *models.Milestone) error
	Update(ctx context.Context, id primitive.ObjectID, milestone *models.Milestone) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoMilestoneRepository struct {
	milestones collection[models.Milestone]
}

func NewMilestoneRepository(coll *mongo.Collection, breaker *gobreaker.CircuitBreaker) MilestoneRepository {
	return &mongoMilestoneRepository{milestones: newCollection[models.Milestone](coll, breaker)}
}

func (r *mongoMilestoneRepository) GetAll(ctx context.Context) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{})
}

func (r *mongoMilestoneRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Milestone, error) {
	return r.milestones.findByID(ctx, id)
}

func (r *mongoMilestoneRepository) GetByName(ctx context.Context, name string) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{"name": containsFold(name)})
}

func (r *mongoMilestoneRepository) GetByDescription(ctx context.Context, description string) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{"description": containsFold(description)})
}

func (r *mongoMilestoneRepository) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{"projectReference": projectID})
}

func (r *mongoMilestoneRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{"members": bson.M{"$elemMatch": bson.M{"_id": memberID}}})
}

func (r *mongoMilestoneRepository) GetByMemberName(ctx context.Context, name string) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{"members": bson.M{"$elemMatch": bson.M{"$or": bson.A{
		bson.M{"firstname": containsFold(name)},
		bson.M{"lastname": containsFold(name)},
	}}}})
}

func (r *mongoMilestoneRepository) GetByStartAfter(ctx context.Context, t time.Time) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{"start": bson.M{"$gte": t}})
}

func (r *mongoMilestoneRepository) GetByEndBefore(ctx context.Context, t time.Time) ([]models.Milestone, error) {
	return r.milestones.find(ctx, bson.M{"end": bson.M{"$lte": t}})
}

func (r *mongoMilestoneRepository) Create(ctx context.Context, milestone *models.Milestone) error {
	milestone.ID = primitive.NewObjectID()
	return r.milestones.insert(ctx, milestone)
}

func (r *mongoMilestoneRepository) Update(ctx context.Context, id primitive.ObjectID, milestone *models.Milestone) error {
	milestone.ID = id
	return r.milestones.replace(ctx, id, milestone)
}

func (r *mongoMilestoneRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.milestones.delete(ctx, id)
}
