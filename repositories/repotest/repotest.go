// Package repotest provides in-memory repositories with the same query semantics as the
// MongoDB ones, for tests of the layers above.
package repotest

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/repositories"
)

// table keeps documents in insertion order, as a collection scan would return them.
type table[T any] struct {
	mu   sync.Mutex
	ids  []primitive.ObjectID
	docs map[primitive.ObjectID]T
	// Err, when set, is returned by every operation.
	Err error
}

func newTable[T any]() *table[T] {
	return &table[T]{docs: map[primitive.ObjectID]T{}}
}

func (t *table[T]) filter(match func(T) bool) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	out := []T{}
	for _, id := range t.ids {
		if doc := t.docs[id]; match(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (t *table[T]) get(id primitive.ObjectID) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	doc, ok := t.docs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &doc, nil
}

func (t *table[T]) put(id primitive.ObjectID, doc T, mustExist bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	_, exists := t.docs[id]
	if mustExist && !exists {
		return repositories.ErrNotFound
	}
	if !exists {
		t.ids = append(t.ids, id)
	}
	t.docs[id] = doc
	return nil
}

func (t *table[T]) remove(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	if _, ok := t.docs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(t.docs, id)
	for i, existing := range t.ids {
		if existing == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.docs)
}

func containsFold(value, sub string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}

func memberNameMatches(m models.Member, name string) bool {
	return containsFold(m.Firstname, name) || containsFold(m.Lastname, name)
}

type MemberRepository struct {
	*table[models.Member]
}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{newTable[models.Member]()}
}

func (r *MemberRepository) GetAll(ctx context.Context) ([]models.Member, error) {
	return r.filter(func(models.Member) bool { return true })
}

func (r *MemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	return r.get(id)
}

func (r *MemberRepository) GetByName(ctx context.Context, name string) ([]models.Member, error) {
	return r.filter(func(m models.Member) bool { return memberNameMatches(m, name) })
}

func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	member.ID = primitive.NewObjectID()
	return r.put(member.ID, *member, false)
}

func (r *MemberRepository) Update(ctx context.Context, id primitive.ObjectID, member *models.Member) error {
	member.ID = id
	return r.put(id, *member, true)
}

func (r *MemberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.remove(id)
}

type MilestoneRepository struct {
	*table[models.Milestone]
	// FailDeleteOf makes Delete fail for one id.
	FailDeleteOf primitive.ObjectID
}

func NewMilestoneRepository() *MilestoneRepository {
	return &MilestoneRepository{table: newTable[models.Milestone]()}
}

func (r *MilestoneRepository) GetAll(ctx context.Context) ([]models.Milestone, error) {
	return r.filter(func(models.Milestone) bool { return true })
}

func (r *MilestoneRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Milestone, error) {
	return r.get(id)
}

func (r *MilestoneRepository) GetByName(ctx context.Context, name string) ([]models.Milestone, error) {
	return r.filter(func(m models.Milestone) bool { return containsFold(m.Name, name) })
}

func (r *MilestoneRepository) GetByDescription(ctx context.Context, description string) ([]models.Milestone, error) {
	return r.filter(func(m models.Milestone) bool { return containsFold(m.Description, description) })
}

func (r *MilestoneRepository) GetByProjectID(ctx context.Context, projectID primitive.ObjectID) ([]models.Milestone, error) {
	return r.filter(func(m models.Milestone) bool { return m.ProjectReference == projectID })
}

func (r *MilestoneRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]models.Milestone, error) {
	return r.filter(func(m models.Milestone) bool {
		for _, member := range m.Members {
			if member.ID == memberID {
				return true
			}
		}
		return false
	})
}

func (r *MilestoneRepository) GetByMemberName(ctx context.Context, name string) ([]models.Milestone, error) {
	return r.filter(func(m models.Milestone) bool {
		for _, member := range m.Members {
			if memberNameMatches(member, name) {
				return true
			}
		}
		return false
	})
}

func (r *MilestoneRepository) GetByStartAfter(ctx context.Context, t time.Time) ([]models.Milestone, error) {
	return r.filter(func(m models.Milestone) bool { return !m.Start.Before(t) })
}

func (r *MilestoneRepository) GetByEndBefore(ctx context.Context, t time.Time) ([]models.Milestone, error) {
	return r.filter(func(m models.Milestone) bool { return !m.End.After(t) })
}

func (r *MilestoneRepository) Create(ctx context.Context, milestone *models.Milestone) error {
	milestone.ID = primitive.NewObjectID()
	return r.put(milestone.ID, *milestone, false)
}

func (r *MilestoneRepository) Update(ctx context.Context, id primitive.ObjectID, milestone *models.Milestone) error {
	milestone.ID = id
	return r.put(id, *milestone, true)
}

func (r *MilestoneRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if !r.FailDeleteOf.IsZero() && id == r.FailDeleteOf {
		return repositories.ErrUnavailable
	}
	return r.remove(id)
}

type ProjectRepository struct {
	*table[models.Project]
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{newTable[models.Project]()}
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	return r.filter(func(models.Project) bool { return true })
}

func (r *ProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return r.get(id)
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) ([]models.Project, error) {
	return r.filter(func(p models.Project) bool { return containsFold(p.Name, name) })
}

func (r *ProjectRepository) GetByStartAfter(ctx context.Context, t time.Time) ([]models.Project, error) {
	return r.filter(func(p models.Project) bool { return !p.Start.Before(t) })
}

func (r *ProjectRepository) GetByEndBefore(ctx context.Context, t time.Time) ([]models.Project, error) {
	return r.filter(func(p models.Project) bool { return !p.End.After(t) })
}

// Create stores the project without milestones, as the MongoDB repository does.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.ID = primitive.NewObjectID()
	stored := *project
	stored.Milestones = nil
	return r.put(project.ID, stored, false)
}

func (r *ProjectRepository) Update(ctx context.Context, id primitive.ObjectID, project *models.Project) error {
	project.ID = id
	stored := *project
	stored.Milestones = nil
	return r.put(id, stored, true)
}

func (r *ProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.remove(id)
}

var (
	_ repositories.MemberRepository    = (*MemberRepository)(nil)
	_ repositories.MilestoneRepository = (*MilestoneRepository)(nil)
	_ repositories.ProjectRepository   = (*ProjectRepository)(nil)
)
