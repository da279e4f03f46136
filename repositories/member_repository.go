package repositories

import (
	"context"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
)

type MemberRepository interface {
	GetAll(ctx context.Context) ([]models.Member, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	// GetByName matches firstname or lastname case-insensitively by substring.
	GetByName(ctx context.Context, name string) ([]models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, id primitive.ObjectID, member *models.Member) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoMemberRepository struct {
	members collection[models.Member]
}

func NewMemberRepository(coll *mongo.Collection, breaker *gobreaker.CircuitBreaker) MemberRepository {
	return &mongoMemberRepository{members: newCollection[models.Member](coll, breaker)}
}

func (r *mongoMemberRepository) GetAll(ctx context.Context) ([]models.Member, error) {
	return r.members.find(ctx, bson.M{})
}

func (r *mongoMemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	return r.members.findByID(ctx, id)
}

func (r *mongoMemberRepository) GetByName(ctx context.Context, name string) ([]models.Member, error) {
	return r.members.find(ctx, bson.M{"$or": bson.A{
		bson.M{"firstname": containsFold(name)},
		bson.M{"lastname": containsFold(name)},
	}})
}

// Create assigns a fresh id to member before inserting it.
func (r *mongoMemberRepository) Create(ctx context.Context, member *models.Member) error {
	member.ID = primitive.NewObjectID()
	return r.members.insert(ctx, member)
}

func (r *mongoMemberRepository) Update(ctx context.Context, id primitive.ObjectID, member *models.Member) error {
	member.ID = id
	return r.members.replace(ctx, id, member)
}

func (r *mongoMemberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.members.delete(ctx, id)
}
