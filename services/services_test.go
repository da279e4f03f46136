package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/repositories"
	"github.com/zabuzara/project-milestone-dashboard-backend/repositories/repotest"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	memberRepo    *repotest.MemberRepository
	milestoneRepo *repotest.MilestoneRepository
	projectRepo   *repotest.ProjectRepository

	members    *MemberService
	milestones *MilestoneService
	projects   *ProjectService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		memberRepo:    repotest.NewMemberRepository(),
		milestoneRepo: repotest.NewMilestoneRepository(),
		projectRepo:   repotest.NewProjectRepository(),
	}
	f.members = NewMemberService(f.memberRepo)
	f.milestones = NewMilestoneService(f.milestoneRepo, f.projectRepo, f.memberRepo)
	f.milestones.now = func() time.Time { return fixedNow }
	f.projects = NewProjectService(f.projectRepo, f.milestoneRepo, f.milestones)
	f.projects.now = func() time.Time { return fixedNow }
	return f
}

func boolPtr(v bool) *bool { return &v }

func (f *fixture) member(t *testing.T, first, last string) models.Member {
	t.Helper()
	m, err := f.members.Create(context.Background(), &models.Member{Firstname: first, Lastname: last})
	if err != nil {
		t.Fatalf("create member %s %s: %v", first, last, err)
	}
	return *m
}

func (f *fixture) project(t *testing.T, name string, start, end time.Time) models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), &models.Project{Name: name, Start: start, End: end})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return *p
}

func newMilestone(projectID primitive.ObjectID, name string, end time.Time, completed bool, members ...models.Member) *models.Milestone {
	if members == nil {
		members = []models.Member{}
	}
	return &models.Milestone{
		ProjectReference: projectID,
		Name:             name,
		Description:      name + " description",
		Start:            end.Add(-48 * time.Hour),
		End:              end,
		IsCompleted:      boolPtr(completed),
		Members:          members,
	}
}

func (f *fixture) milestone(t *testing.T, m *models.Milestone) models.Milestone {
	t.Helper()
	created, err := f.milestones.Create(context.Background(), m)
	if err != nil {
		t.Fatalf("create milestone %s: %v", m.Name, err)
	}
	return *created
}

func assertKind(t *testing.T, err, kind error, message string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error kind: want=%v got=%v", kind, err)
	}
	if message != "" && Message(err) != message {
		t.Fatalf("message: want=%q got=%q", message, Message(err))
	}
}

func TestMemberCreateRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.member(t, "Jane", "Doe")

	_, err := f.members.Create(context.Background(), &models.Member{Firstname: "Jane", Lastname: "Doe"})
	assertKind(t, err, ErrDuplicate, "Member-Duplicate not allowed")
	if f.memberRepo.Len() != 1 {
		t.Fatalf("stored members: want=1 got=%d", f.memberRepo.Len())
	}

	if _, err := f.members.Create(context.Background(), &models.Member{Firstname: "jane", Lastname: "Doe"}); err != nil {
		t.Fatalf("case-different member rejected: %v", err)
	}
}

func TestMemberCreateRejectsMissingAndOversizedFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.members.Create(context.Background(), &models.Member{Firstname: "Jane"})
	assertKind(t, err, ErrValidation, "Member property is missing")

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.members.Create(context.Background(), &models.Member{Firstname: string(long), Lastname: "Doe"})
	assertKind(t, err, ErrValidation, "")
}

func TestMemberUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := f.member(t, "Jane", "Doe")
	john := f.member(t, "John", "Doe")

	if err := f.members.Update(ctx, jane.ID.Hex(), &models.Member{Firstname: "Jane", Lastname: "Doe"}); err != nil {
		t.Fatalf("updating a member to its own content: %v", err)
	}

	err := f.members.Update(ctx, john.ID.Hex(), &models.Member{Firstname: "Jane", Lastname: "Doe"})
	assertKind(t, err, ErrDuplicate, "Member-Duplicate not allowed")

	err = f.members.Update(ctx, primitive.NewObjectID().Hex(), &models.Member{Firstname: "A", Lastname: "B"})
	assertKind(t, err, ErrNotFound, "Member not exists")

	err = f.members.Update(ctx, "not-an-id", &models.Member{Firstname: "A", Lastname: "B"})
	assertKind(t, err, ErrMalformedID, "")
}

func TestMemberRoundTrip(t *testing.T) {
	f := newFixture(t)
	jane := f.member(t, "Jane", "Doe")

	got, err := f.members.GetByID(context.Background(), jane.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != jane.ID || !got.Equal(jane) {
		t.Fatalf("round trip: want=%+v got=%+v", jane, *got)
	}

	byName, err := f.members.GetByName(context.Background(), "DO")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if len(byName) != 1 {
		t.Fatalf("GetByName: want=1 got=%d", len(byName))
	}
}

func TestMilestoneRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := f.member(t, "Jane", "Doe")
	john := f.member(t, "John", "Doe")
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))

	created := f.milestone(t, newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), true, jane, john))

	got, err := f.milestones.GetByID(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != created.ID || !got.Equal(&created) {
		t.Fatalf("round trip: want=%+v got=%+v", created, *got)
	}
	if !got.Completed() || len(got.Members) != 2 || got.Members[1].ID != john.ID {
		t.Fatalf("round trip lost fields: %+v", *got)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	f.milestone(t, newMilestone(created.ID, "M1", fixedNow.Add(24*time.Hour), false))

	got, err := f.projects.GetByID(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Milestones) != 1 {
		t.Fatalf("assembled milestones: want=1 got=%d", len(got.Milestones))
	}
	stored := *got
	stored.Milestones = []models.Milestone{}
	if got.ID != created.ID || !stored.Equal(&created) {
		t.Fatalf("round trip: want=%+v got=%+v", created, stored)
	}
}

func TestMemberDeleteKeepsEmbeddedCopies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := f.member(t, "Jane", "Doe")
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	m1 := f.milestone(t, newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), false, jane))

	if err := f.members.Delete(ctx, jane.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := f.milestones.GetByID(ctx, m1.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].ID != jane.ID {
		t.Fatalf("embedded members after delete: %+v", got.Members)
	}

	err = f.members.Delete(ctx, jane.ID.Hex())
	assertKind(t, err, ErrNotFound, "Member not exists")
}

func TestMilestoneCreateChecksReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := f.member(t, "Jane", "Doe")
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	end := fixedNow.Add(24 * time.Hour)

	_, err := f.milestones.Create(ctx, newMilestone(primitive.NewObjectID(), "M1", end, false))
	assertKind(t, err, ErrValidation, "Project not exists")

	renamed := jane
	renamed.Firstname = "Janet"
	_, err = f.milestones.Create(ctx, newMilestone(alpha.ID, "M1", end, false, renamed))
	assertKind(t, err, ErrValidation, "Member/s not exists")

	stranger := models.Member{ID: primitive.NewObjectID(), Firstname: "Jane", Lastname: "Doe"}
	_, err = f.milestones.Create(ctx, newMilestone(alpha.ID, "M1", end, false, stranger))
	assertKind(t, err, ErrValidation, "Member/s not exists")

	if f.milestoneRepo.Len() != 0 {
		t.Fatalf("stored milestones: want=0 got=%d", f.milestoneRepo.Len())
	}

	created := f.milestone(t, newMilestone(alpha.ID, "M1", end, false, jane))
	if created.ID.IsZero() {
		t.Fatalf("created milestone has no id")
	}
}

func TestMilestoneCreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	end := fixedNow.Add(24 * time.Hour)

	inverted := newMilestone(alpha.ID, "M1", end, false)
	inverted.Start = end.Add(time.Hour)
	_, err := f.milestones.Create(ctx, inverted)
	assertKind(t, err, ErrValidation, "Invalid Start Date")

	unset := newMilestone(alpha.ID, "M1", end, false)
	unset.Start = time.Time{}
	_, err = f.milestones.Create(ctx, unset)
	assertKind(t, err, ErrValidation, "Milestone property is missing")

	noFlag := newMilestone(alpha.ID, "M1", end, false)
	noFlag.IsCompleted = nil
	_, err = f.milestones.Create(ctx, noFlag)
	assertKind(t, err, ErrValidation, "Milestone property is missing")

	sameDay := newMilestone(alpha.ID, "M1", end, false)
	sameDay.Start = end
	if _, err := f.milestones.Create(ctx, sameDay); err != nil {
		t.Fatalf("start equal to end rejected: %v", err)
	}
}

func TestMilestoneDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	end := fixedNow.Add(24 * time.Hour)

	m1 := f.milestone(t, newMilestone(alpha.ID, "M1", end, false))
	_, err := f.milestones.Create(ctx, newMilestone(alpha.ID, "M1", end, false))
	assertKind(t, err, ErrDuplicate, "Milestone-Duplicate not allowed")

	m2 := f.milestone(t, newMilestone(alpha.ID, "M2", end, false))
	err = f.milestones.Update(ctx, m2.ID.Hex(), newMilestone(alpha.ID, "M1", end, false))
	assertKind(t, err, ErrDuplicate, "Milestone-Duplicate not allowed")

	if err := f.milestones.Update(ctx, m1.ID.Hex(), newMilestone(alpha.ID, "M1", end, true)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := f.milestones.GetByID(ctx, m1.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Completed() {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestMilestoneGetByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow.Add(-90*24*time.Hour), fixedNow.Add(30*24*time.Hour))

	expired := f.milestone(t, newMilestone(alpha.ID, "past", fixedNow.Add(-24*time.Hour), false))
	open := f.milestone(t, newMilestone(alpha.ID, "boundary", fixedNow, false))
	done := f.milestone(t, newMilestone(alpha.ID, "done", fixedNow.Add(-24*time.Hour), true))

	cases := []struct {
		status models.Status
		want   primitive.ObjectID
	}{
		{models.StatusExpired, expired.ID},
		{models.StatusOpens, open.ID},
		{models.StatusCompleted, done.ID},
	}
	for _, tc := range cases {
		got, err := f.milestones.GetByStatus(ctx, tc.status)
		if err != nil {
			t.Fatalf("GetByStatus(%s): %v", tc.status, err)
		}
		if len(got) != 1 || got[0].ID != tc.want {
			t.Fatalf("GetByStatus(%s): want=[%s] got=%+v", tc.status, tc.want.Hex(), got)
		}
		again, err := f.milestones.GetByStatus(ctx, tc.status)
		if err != nil {
			t.Fatalf("GetByStatus(%s) second call: %v", tc.status, err)
		}
		if len(again) != len(got) {
			t.Fatalf("GetByStatus(%s) not idempotent: %d then %d", tc.status, len(got), len(again))
		}
	}
}

func TestMilestoneDateFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	early := f.milestone(t, newMilestone(alpha.ID, "early", fixedNow.Add(24*time.Hour), false))
	late := f.milestone(t, newMilestone(alpha.ID, "late", fixedNow.Add(10*24*time.Hour), false))

	after, err := f.milestones.GetByStartAfter(ctx, late.Start)
	if err != nil || len(after) != 1 || after[0].ID != late.ID {
		t.Fatalf("GetByStartAfter: got=%+v err=%v", after, err)
	}
	before, err := f.milestones.GetByEndBefore(ctx, early.End)
	if err != nil || len(before) != 1 || before[0].ID != early.ID {
		t.Fatalf("GetByEndBefore: got=%+v err=%v", before, err)
	}
}

func TestProjectCreateDefaultsAndDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.projects.Create(ctx, &models.Project{
		Name:       "Alpha",
		Milestones: []models.Milestone{*newMilestone(primitive.NewObjectID(), "ignored", fixedNow, false)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.Start.Equal(models.DefaultProjectStart) || !created.End.Equal(models.DefaultProjectEnd) {
		t.Fatalf("defaults: got start=%s end=%s", created.Start, created.End)
	}
	if created.Milestones == nil || len(created.Milestones) != 0 {
		t.Fatalf("milestones: want empty list got=%+v", created.Milestones)
	}
	if f.milestoneRepo.Len() != 0 {
		t.Fatalf("inbound milestones were stored")
	}

	_, err = f.projects.Create(ctx, &models.Project{Name: "Alpha"})
	assertKind(t, err, ErrDuplicate, "Project-Duplicate not allowed")

	_, err = f.projects.Create(ctx, &models.Project{})
	assertKind(t, err, ErrValidation, "Project property is missing")
}

func TestProjectAssembly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := f.member(t, "Jane", "Doe")
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	beta := f.project(t, "Beta", fixedNow, fixedNow.Add(60*24*time.Hour))
	m1 := f.milestone(t, newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), false, jane))

	got, err := f.projects.GetByID(ctx, alpha.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Milestones) != 1 || got.Milestones[0].ID != m1.ID {
		t.Fatalf("Alpha milestones: %+v", got.Milestones)
	}

	all, err := f.projects.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	for _, p := range all {
		if p.ID == beta.ID && (p.Milestones == nil || len(p.Milestones) != 0) {
			t.Fatalf("Beta milestones: want empty list got=%+v", p.Milestones)
		}
	}

	lookups := map[string]func() ([]models.Project, error){
		"GetByMemberID":             func() ([]models.Project, error) { return f.projects.GetByMemberID(ctx, jane.ID.Hex()) },
		"GetByMemberName":           func() ([]models.Project, error) { return f.projects.GetByMemberName(ctx, "jan") },
		"GetByMilestoneName":        func() ([]models.Project, error) { return f.projects.GetByMilestoneName(ctx, "m1") },
		"GetByMilestoneDescription": func() ([]models.Project, error) { return f.projects.GetByMilestoneDescription(ctx, "DESCRIPTION") },
	}
	for name, lookup := range lookups {
		projects, err := lookup()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(projects) != 1 || projects[0].ID != alpha.ID || len(projects[0].Milestones) != 1 {
			t.Fatalf("%s: want=[Alpha with M1] got=%+v", name, projects)
		}
	}

	none, err := f.projects.GetByMemberName(ctx, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("GetByMemberName(nobody): got=%+v err=%v", none, err)
	}
}

func TestProjectGetByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := fixedNow.Add(-10 * 24 * time.Hour)

	emptyOpen := f.project(t, "Empty open", start, fixedNow.Add(10*24*time.Hour))
	emptyOver := f.project(t, "Empty over", start, fixedNow.Add(-time.Hour))
	ongoing := f.project(t, "Ongoing", start, fixedNow.Add(10*24*time.Hour))
	f.milestone(t, newMilestone(ongoing.ID, "next", fixedNow.Add(24*time.Hour), false))
	finished := f.project(t, "Finished", start, fixedNow.Add(10*24*time.Hour))
	f.milestone(t, newMilestone(finished.ID, "done", fixedNow.Add(24*time.Hour), true))
	over := f.project(t, "Over", start, fixedNow)
	f.milestone(t, newMilestone(over.ID, "late", fixedNow.Add(-24*time.Hour), false))

	cases := []struct {
		status models.Status
		want   primitive.ObjectID
	}{
		{models.StatusOpens, ongoing.ID},
		{models.StatusCompleted, finished.ID},
		{models.StatusExpired, over.ID},
	}
	for _, tc := range cases {
		got, err := f.projects.GetByStatus(ctx, tc.status)
		if err != nil {
			t.Fatalf("GetByStatus(%s): %v", tc.status, err)
		}
		if len(got) != 1 || got[0].ID != tc.want {
			t.Fatalf("GetByStatus(%s): want=[%s] got=%+v", tc.status, tc.want.Hex(), got)
		}
		for _, p := range got {
			if p.ID == emptyOpen.ID || p.ID == emptyOver.ID {
				t.Fatalf("GetByStatus(%s): project %q without milestones returned", tc.status, p.Name)
			}
		}
	}
}

func TestProjectUpdateAttachesNewMilestones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	existing := f.milestone(t, newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), false))

	// The project reference of a new milestone is taken from the updated project.
	fresh := newMilestone(primitive.NewObjectID(), "M2", fixedNow.Add(48*time.Hour), false)
	err := f.projects.Update(ctx, alpha.ID.Hex(), &models.Project{
		Name:       "Alpha renamed",
		Start:      alpha.Start,
		End:        alpha.End,
		Milestones: []models.Milestone{existing, *fresh},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := f.projects.GetByID(ctx, alpha.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alpha renamed" {
		t.Fatalf("name: want=%q got=%q", "Alpha renamed", got.Name)
	}
	if len(got.Milestones) != 2 {
		t.Fatalf("milestones: want=2 got=%d", len(got.Milestones))
	}
	for _, m := range got.Milestones {
		if m.ProjectReference != alpha.ID {
			t.Fatalf("milestone %s references %s", m.Name, m.ProjectReference.Hex())
		}
	}
}

func TestProjectUpdateWritesNothingWhenAMilestoneIsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))

	valid := newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), false)
	twin := newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), false)
	err := f.projects.Update(ctx, alpha.ID.Hex(), &models.Project{
		Name:       "Alpha renamed",
		Milestones: []models.Milestone{*valid, *twin},
	})
	assertKind(t, err, ErrDuplicate, "Milestone-Duplicate not allowed")

	if f.milestoneRepo.Len() != 0 {
		t.Fatalf("stored milestones: want=0 got=%d", f.milestoneRepo.Len())
	}
	got, err := f.projects.GetByID(ctx, alpha.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Alpha" {
		t.Fatalf("project was updated: %q", got.Name)
	}
}

func TestProjectUpdateRejectsDuplicateOfAnotherProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(time.Hour))
	beta := f.project(t, "Beta", fixedNow, fixedNow.Add(time.Hour))

	err := f.projects.Update(ctx, beta.ID.Hex(), &models.Project{Name: "Alpha", Start: alpha.Start, End: alpha.End})
	assertKind(t, err, ErrDuplicate, "Project-Duplicate not allowed")

	if err := f.projects.Update(ctx, alpha.ID.Hex(), &models.Project{Name: "Alpha", Start: alpha.Start, End: alpha.End}); err != nil {
		t.Fatalf("updating a project to its own content: %v", err)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	beta := f.project(t, "Beta", fixedNow, fixedNow.Add(30*24*time.Hour))
	f.milestone(t, newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), false))
	f.milestone(t, newMilestone(alpha.ID, "M2", fixedNow.Add(48*time.Hour), false))
	kept := f.milestone(t, newMilestone(beta.ID, "M1", fixedNow.Add(24*time.Hour), false))

	if err := f.projects.Delete(ctx, alpha.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	left, err := f.milestones.GetByProjectID(ctx, alpha.ID.Hex())
	if err != nil || len(left) != 0 {
		t.Fatalf("milestones of deleted project: got=%+v err=%v", left, err)
	}
	if _, err := f.milestones.GetByID(ctx, kept.ID.Hex()); err != nil {
		t.Fatalf("milestone of another project removed: %v", err)
	}

	_, err = f.projects.GetByID(ctx, alpha.ID.Hex())
	assertKind(t, err, ErrNotFound, "Project not exists")
}

func TestProjectDeleteContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alpha := f.project(t, "Alpha", fixedNow, fixedNow.Add(30*24*time.Hour))
	stuck := f.milestone(t, newMilestone(alpha.ID, "M1", fixedNow.Add(24*time.Hour), false))
	f.milestone(t, newMilestone(alpha.ID, "M2", fixedNow.Add(48*time.Hour), false))
	f.milestoneRepo.FailDeleteOf = stuck.ID

	err := f.projects.Delete(ctx, alpha.ID.Hex())
	if err == nil {
		t.Fatalf("Delete: want error got nil")
	}
	if !errors.Is(err, repositories.ErrUnavailable) {
		t.Fatalf("Delete: cause not preserved: %v", err)
	}
	if f.projectRepo.Len() != 0 {
		t.Fatalf("project still stored")
	}
	if f.milestoneRepo.Len() != 1 {
		t.Fatalf("stored milestones: want=1 got=%d", f.milestoneRepo.Len())
	}
}

func TestStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.memberRepo.Err = repositories.ErrUnavailable

	_, err := f.members.GetAll(context.Background())
	assertKind(t, err, ErrStoreUnavailable, "Database temporarily unavailable")
}
