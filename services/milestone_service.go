package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/repositories"
)

const milestoneEntity = "Milestone"

type MilestoneService struct {
	milestones repositories.MilestoneRepository
	projects   repositories.ProjectRepository
	members    repositories.MemberRepository
	now        func() time.Time
}

// NewMilestoneService needs the project and member stores to check the references a
// milestone carries.
func NewMilestoneService(milestones repositories.MilestoneRepository, projects repositories.ProjectRepository, members repositories.MemberRepository) *MilestoneService {
	return &MilestoneService{
		milestones: milestones,
		projects:   projects,
		members:    members,
		now:        time.Now,
	}
}

func (s *MilestoneService) GetAll(ctx context.Context) ([]models.Milestone, error) {
	milestones, err := s.milestones.GetAll(ctx)
	return milestones, storeError(err, milestoneEntity)
}

func (s *MilestoneService) GetByID(ctx context.Context, id string) (*models.Milestone, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	milestone, err := s.milestones.GetByID(ctx, objectID)
	if err != nil {
		return nil, storeError(err, milestoneEntity)
	}
	return milestone, nil
}

func (s *MilestoneService) GetByName(ctx context.Context, name string) ([]models.Milestone, error) {
	milestones, err := s.milestones.GetByName(ctx, name)
	return milestones, storeError(err, milestoneEntity)
}

func (s *MilestoneService) GetByDescription(ctx context.Context, description string) ([]models.Milestone, error) {
	milestones, err := s.milestones.GetByDescription(ctx, description)
	return milestones, storeError(err, milestoneEntity)
}

// GetByProjectID returns an empty list for a project without milestones, or one that
// does not exist.
func (s *MilestoneService) GetByProjectID(ctx context.Context, projectID string) ([]models.Milestone, error) {
	objectID, err := parseID(projectID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.GetByProjectID(ctx, objectID)
	return milestones, storeError(err, milestoneEntity)
}

func (s *MilestoneService) GetByMemberID(ctx context.Context, memberID string) ([]models.Milestone, error) {
	objectID, err := parseID(memberID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.GetByMemberID(ctx, objectID)
	return milestones, storeError(err, milestoneEntity)
}

func (s *MilestoneService) GetByMemberName(ctx context.Context, name string) ([]models.Milestone, error) {
	milestones, err := s.milestones.GetByMemberName(ctx, name)
	return milestones, storeError(err, milestoneEntity)
}

// GetByStatus derives the status of every milestone at the current time and keeps the
// matching ones.
func (s *MilestoneService) GetByStatus(ctx context.Context, status models.Status) ([]models.Milestone, error) {
	all, err := s.milestones.GetAll(ctx)
	if err != nil {
		return nil, storeError(err, milestoneEntity)
	}
	now := s.now()
	matching := []models.Milestone{}
	for i := range all {
		if all[i].Status(now) == status {
			matching = append(matching, all[i])
		}
	}
	return matching, nil
}

func (s *MilestoneService) GetByStartAfter(ctx context.Context, t time.Time) ([]models.Milestone, error) {
	milestones, err := s.milestones.GetByStartAfter(ctx, t)
	return milestones, storeError(err, milestoneEntity)
}

func (s *MilestoneService) GetByEndBefore(ctx context.Context, t time.Time) ([]models.Milestone, error) {
	milestones, err := s.milestones.GetByEndBefore(ctx, t)
	return milestones, storeError(err, milestoneEntity)
}

func (s *MilestoneService) Create(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error) {
	if err := s.check(ctx, milestone, primitive.NilObjectID, nil); err != nil {
		return nil, err
	}
	if err := s.milestones.Create(ctx, milestone); err != nil {
		return nil, storeError(err, milestoneEntity)
	}
	return milestone, nil
}

func (s *MilestoneService) Update(ctx context.Context, id string, milestone *models.Milestone) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.milestones.GetByID(ctx, objectID); err != nil {
		return storeError(err, milestoneEntity)
	}
	if err := s.check(ctx, milestone, objectID, nil); err != nil {
		return err
	}
	return storeError(s.milestones.Update(ctx, objectID, milestone), milestoneEntity)
}

func (s *MilestoneService) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.milestones.GetByID(ctx, objectID); err != nil {
		return storeError(err, milestoneEntity)
	}
	return storeError(s.milestones.Delete(ctx, objectID), milestoneEntity)
}

// check runs every rule a milestone must satisfy before it is written: required fields,
// field bounds, the owning project, the embedded members, uniqueness and the date range.
// A milestone equal to except is not a duplicate; neither are the pending ones, which are
// treated as if already stored.
func (s *MilestoneService) check(ctx context.Context, milestone *models.Milestone, except primitive.ObjectID, pending []models.Milestone) error {
	if milestone.IsMissingProperties() {
		return missingProperty(milestoneEntity)
	}
	if err := milestone.Validate(); err != nil {
		return invalidProperties(milestoneEntity, err)
	}

	if _, err := s.projects.GetByID(ctx, milestone.ProjectReference); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return newError(ErrValidation, "Project not exists")
		}
		return storeError(err, projectEntity)
	}

	for _, member := range milestone.Members {
		stored, err := s.members.GetByID(ctx, member.ID)
		if errors.Is(err, repositories.ErrNotFound) || (err == nil && !stored.Equal(member)) {
			return newError(ErrValidation, "Member/s not exists")
		}
		if err != nil {
			return storeError(err, memberEntity)
		}
	}

	existing, err := s.milestones.GetAll(ctx)
	if err != nil {
		return storeError(err, milestoneEntity)
	}
	for i := range existing {
		if existing[i].ID != except && existing[i].Equal(milestone) {
			return duplicate(milestoneEntity)
		}
	}
	for i := range pending {
		if pending[i].Equal(milestone) {
			return duplicate(milestoneEntity)
		}
	}

	if milestone.Start.After(milestone.End) {
		return newError(ErrValidation, "Invalid Start Date")
	}
	return nil
}
