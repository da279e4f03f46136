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

// ProjectRepository stores projects without their milestones.
type ProjectRepository interface {
	GetAll(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	GetByName(ctx context.Context, name string) ([]models.Project, error)
	GetByStartAfter(ctx context.Context, t time.Time) ([]models.Project, error)
	GetByEndBefore(ctx context.Context, t time.Time) ([]models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id primitive.ObjectID, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoProjectRepository struct {
	projects collection[models.Project]
}

func NewProjectRepository(coll *mongo.Collection, breaker *gobreaker.CircuitBreaker) ProjectRepository {
	return &mongoProjectRepository{projects: newCollection[models.Project](coll, breaker)}
}

func (r *mongoProjectRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	return r.projects.find(ctx, bson.M{})
}

func (r *mongoProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return r.projects.findByID(ctx, id)
}

func (r *mongoProjectRepository) GetByName(ctx context.Context, name string) ([]models.Project, error) {
	return r.projects.find(ctx, bson.M{"name": containsFold(name)})
}

func (r *mongoProjectRepository) GetByStartAfter(ctx context.Context, t time.Time) ([]models.Project, error) {
	return r.projects.find(ctx, bson.M{"start": bson.M{"$gte": t}})
}

func (r *mongoProjectRepository) GetByEndBefore(ctx context.Context, t time.Time) ([]models.Project, error) {
	return r.projects.find(ctx, bson.M{"end": bson.M{"$lte": t}})
}

func (r *mongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.ID = primitive.NewObjectID()
	return r.projects.insert(ctx, project)
}

func (r *mongoProjectRepository) Update(ctx context.Context, id primitive.ObjectID, project *models.Project) error {
	project.ID = id
	return r.projects.replace(ctx, id, project)
}

func (r *mongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.projects.delete(ctx, id)
}
