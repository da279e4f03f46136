package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zabuzara/project-milestone-dashboard-backend/logging"
	"github.com/zabuzara/project-milestone-dashboard-backend/metrics"
	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/repositories"
)

const projectEntity = "Project"

// ProjectService returns projects with their milestones assembled from the milestone
// store on every read.
type ProjectService struct {
	projects   repositories.ProjectRepository
	milestones repositories.MilestoneRepository
	milestone  *MilestoneService
	now        func() time.Time
}

func NewProjectService(projects repositories.ProjectRepository, milestones repositories.MilestoneRepository, milestone *MilestoneService) *ProjectService {
	return &ProjectService{
		projects:   projects,
		milestones: milestones,
		milestone:  milestone,
		now:        time.Now,
	}
}

// assemble replaces whatever milestones the projects carry with the stored ones.
func (s *ProjectService) assemble(ctx context.Context, projects []models.Project) ([]models.Project, error) {
	if len(projects) == 0 {
		return []models.Project{}, nil
	}
	all, err := s.milestones.GetAll(ctx)
	if err != nil {
		return nil, storeError(err, milestoneEntity)
	}
	byProject := make(map[primitive.ObjectID][]models.Milestone)
	for _, milestone := range all {
		byProject[milestone.ProjectReference] = append(byProject[milestone.ProjectReference], milestone)
	}
	for i := range projects {
		projects[i].Milestones = byProject[projects[i].ID]
		if projects[i].Milestones == nil {
			projects[i].Milestones = []models.Milestone{}
		}
	}
	return projects, nil
}

func (s *ProjectService) assembled(ctx context.Context, projects []models.Project, err error) ([]models.Project, error) {
	if err != nil {
		return nil, storeError(err, projectEntity)
	}
	return s.assemble(ctx, projects)
}

// owning returns the assembled projects referenced by at least one of milestones.
func (s *ProjectService) owning(ctx context.Context, milestones []models.Milestone, err error) ([]models.Project, error) {
	if err != nil {
		return nil, storeError(err, milestoneEntity)
	}
	if len(milestones) == 0 {
		return []models.Project{}, nil
	}
	referenced := make(map[primitive.ObjectID]bool, len(milestones))
	for _, milestone := range milestones {
		referenced[milestone.ProjectReference] = true
	}
	all, err := s.projects.GetAll(ctx)
	if err != nil {
		return nil, storeError(err, projectEntity)
	}
	projects := []models.Project{}
	for _, project := range all {
		if referenced[project.ID] {
			projects = append(projects, project)
		}
	}
	return s.assemble(ctx, projects)
}

func (s *ProjectService) GetAll(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projects.GetAll(ctx)
	return s.assembled(ctx, projects, err)
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, objectID)
	if err != nil {
		return nil, storeError(err, projectEntity)
	}
	projects, err := s.assemble(ctx, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &projects[0], nil
}

func (s *ProjectService) GetByName(ctx context.Context, name string) ([]models.Project, error) {
	projects, err := s.projects.GetByName(ctx, name)
	return s.assembled(ctx, projects, err)
}

// GetByMemberID returns the projects with a milestone that embeds the member.
func (s *ProjectService) GetByMemberID(ctx context.Context, memberID string) ([]models.Project, error) {
	objectID, err := parseID(memberID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.GetByMemberID(ctx, objectID)
	return s.owning(ctx, milestones, err)
}

func (s *ProjectService) GetByMemberName(ctx context.Context, name string) ([]models.Project, error) {
	milestones, err := s.milestones.GetByMemberName(ctx, name)
	return s.owning(ctx, milestones, err)
}

func (s *ProjectService) GetByMilestoneName(ctx context.Context, name string) ([]models.Project, error) {
	milestones, err := s.milestones.GetByName(ctx, name)
	return s.owning(ctx, milestones, err)
}

func (s *ProjectService) GetByMilestoneDescription(ctx context.Context, description string) ([]models.Project, error) {
	milestones, err := s.milestones.GetByDescription(ctx, description)
	return s.owning(ctx, milestones, err)
}

// GetByStatus leaves out projects without milestones, which have no status.
func (s *ProjectService) GetByStatus(ctx context.Context, status models.Status) ([]models.Project, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	matching := []models.Project{}
	for i := range all {
		if got, ok := all[i].Status(now); ok && got == status {
			matching = append(matching, all[i])
		}
	}
	return matching, nil
}

func (s *ProjectService) GetByStartAfter(ctx context.Context, t time.Time) ([]models.Project, error) {
	projects, err := s.projects.GetByStartAfter(ctx, t)
	return s.assembled(ctx, projects, err)
}

func (s *ProjectService) GetByEndBefore(ctx context.Context, t time.Time) ([]models.Project, error) {
	projects, err := s.projects.GetByEndBefore(ctx, t)
	return s.assembled(ctx, projects, err)
}

// Create stores the project without milestones. Unset dates get the default range.
func (s *ProjectService) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if project.IsMissingProperties() {
		return nil, missingProperty(projectEntity)
	}
	project.ApplyDefaults()
	project.Milestones = nil
	if err := s.check(ctx, project, primitive.NilObjectID); err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, storeError(err, projectEntity)
	}
	project.Milestones = []models.Milestone{}
	return project, nil
}

// Update replaces name and dates of the project. Inbound milestones without an id are
// created under this project once all of them pass validation; those with an id are left
// to the milestone resource.
func (s *ProjectService) Update(ctx context.Context, id string, project *models.Project) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, objectID); err != nil {
		return storeError(err, projectEntity)
	}
	if project.IsMissingProperties() {
		return missingProperty(projectEntity)
	}
	project.ApplyDefaults()

	inbound := project.Milestones
	project.Milestones = nil
	if err := s.check(ctx, project, objectID); err != nil {
		return err
	}
	attach, err := s.pendingMilestones(ctx, objectID, inbound)
	if err != nil {
		return err
	}

	if err := s.projects.Update(ctx, objectID, project); err != nil {
		return storeError(err, projectEntity)
	}
	return s.attachMilestones(ctx, objectID, attach)
}

// pendingMilestones validates the new milestones of an update against the store and
// against each other.
func (s *ProjectService) pendingMilestones(ctx context.Context, projectID primitive.ObjectID, inbound []models.Milestone) ([]models.Milestone, error) {
	pending := []models.Milestone{}
	for _, milestone := range inbound {
		if !milestone.ID.IsZero() {
			continue
		}
		milestone.ProjectReference = projectID
		if err := s.milestone.check(ctx, &milestone, primitive.NilObjectID, pending); err != nil {
			return nil, err
		}
		pending = append(pending, milestone)
	}
	return pending, nil
}

func (s *ProjectService) attachMilestones(ctx context.Context, projectID primitive.ObjectID, milestones []models.Milestone) error {
	for i := range milestones {
		if err := s.milestones.Create(ctx, &milestones[i]); err != nil {
			logging.Logger.Errorf("Event ID: MILESTONE_ATTACH_FAILED, Description: Failed to attach milestone %q to project %s: %v",
				milestones[i].Name, projectID.Hex(), err)
			return storeError(err, milestoneEntity)
		}
		logging.Logger.Infof("Event ID: MILESTONE_ATTACHED, Description: Milestone %s attached to project %s",
			milestones[i].ID.Hex(), projectID.Hex())
	}
	return nil
}

// Delete removes the project and then each of its milestones. Milestones already removed
// stay removed when a later one fails; the failures are returned together.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, objectID); err != nil {
		return storeError(err, projectEntity)
	}
	if err := s.projects.Delete(ctx, objectID); err != nil {
		return storeError(err, projectEntity)
	}

	owned, err := s.milestones.GetByProjectID(ctx, objectID)
	if err != nil {
		logging.Logger.Errorf("Event ID: CASCADE_DELETE_FAILED, Description: Project %s removed but its milestones could not be listed: %v", id, err)
		return fmt.Errorf("list milestones of deleted project %s: %w", id, err)
	}

	var errs []error
	deleted := 0
	for _, milestone := range owned {
		if err := s.milestones.Delete(ctx, milestone.ID); err != nil {
			logging.Logger.Errorf("Event ID: CASCADE_DELETE_FAILED, Description: Failed to remove milestone %s of project %s: %v",
				milestone.ID.Hex(), id, err)
			errs = append(errs, fmt.Errorf("milestone %s: %w", milestone.ID.Hex(), err))
			continue
		}
		deleted++
	}
	metrics.CascadeDeletedMilestones.Add(float64(deleted))

	if len(errs) > 0 {
		return fmt.Errorf("cascade delete of project %s: %w", id, errors.Join(errs...))
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s removed with %d milestone(s)", id, deleted)
	return nil
}

// check validates the persisted fields of project and rejects it when it equals a stored
// project other than except.
func (s *ProjectService) check(ctx context.Context, project *models.Project, except primitive.ObjectID) error {
	if err := project.Validate(); err != nil {
		return invalidProperties(projectEntity, err)
	}
	existing, err := s.projects.GetAll(ctx)
	if err != nil {
		return storeError(err, projectEntity)
	}
	for i := range existing {
		existing[i].Milestones = nil
		if existing[i].ID != except && existing[i].Equal(project) {
			return duplicate(projectEntity)
		}
	}
	return nil
}
