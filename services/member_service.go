package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/repositories"
)

const memberEntity = "Member"

type MemberService struct {
	members repositories.MemberRepository
}

func NewMemberService(members repositories.MemberRepository) *MemberService {
	return &MemberService{members: members}
}

func (s *MemberService) GetAll(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.GetAll(ctx)
	return members, storeError(err, memberEntity)
}

func (s *MemberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	member, err := s.members.GetByID(ctx, objectID)
	if err != nil {
		return nil, storeError(err, memberEntity)
	}
	return member, nil
}

// GetByName matches firstname or lastname, case-insensitive substring.
func (s *MemberService) GetByName(ctx context.Context, name string) ([]models.Member, error) {
	members, err := s.members.GetByName(ctx, name)
	return members, storeError(err, memberEntity)
}

// Create persists member unless it is incomplete or equal to a stored member.
func (s *MemberService) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	if err := s.check(ctx, member, primitive.NilObjectID); err != nil {
		return nil, err
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, storeError(err, memberEntity)
	}
	return member, nil
}

func (s *MemberService) Update(ctx context.Context, id string, member *models.Member) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.members.GetByID(ctx, objectID); err != nil {
		return storeError(err, memberEntity)
	}
	if err := s.check(ctx, member, objectID); err != nil {
		return err
	}
	return storeError(s.members.Update(ctx, objectID, member), memberEntity)
}

// Delete removes the member record only. Milestones keep their embedded copies.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.members.GetByID(ctx, objectID); err != nil {
		return storeError(err, memberEntity)
	}
	return storeError(s.members.Delete(ctx, objectID), memberEntity)
}

// check validates member and rejects it when it equals a stored member other than except.
func (s *MemberService) check(ctx context.Context, member *models.Member, except primitive.ObjectID) error {
	if member.IsMissingProperties() {
		return missingProperty(memberEntity)
	}
	if err := member.Validate(); err != nil {
		return invalidProperties(memberEntity, err)
	}

	existing, err := s.members.GetAll(ctx)
	if err != nil {
		return storeError(err, memberEntity)
	}
	for _, stored := range existing {
		if stored.ID != except && stored.Equal(*member) {
			return duplicate(memberEntity)
		}
	}
	return nil
}
