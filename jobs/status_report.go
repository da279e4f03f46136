package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zabuzara/project-milestone-dashboard-backend/logging"
	"github.com/zabuzara/project-milestone-dashboard-backend/metrics"
	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/services"
)

// StatusReporter periodically derives the status of every milestone and project, publishes
// the counts as gauges and warns about expired milestones. It never writes to the store.
type StatusReporter struct {
	cron       *cron.Cron
	milestones *services.MilestoneService
	projects   *services.ProjectService
	timeout    time.Duration
	now        func() time.Time
}

func NewStatusReporter(milestones *services.MilestoneService, projects *services.ProjectService, timeout time.Duration) *StatusReporter {
	return &StatusReporter{
		cron:       cron.New(),
		milestones: milestones,
		projects:   projects,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Start schedules the report. An empty schedule leaves the reporter idle.
func (r *StatusReporter) Start(schedule string) error {
	if schedule == "" {
		logging.Logger.Info("Event ID: STATUS_REPORT_DISABLED, Description: No status report schedule configured")
		return nil
	}
	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.Run(ctx); err != nil {
			logging.Logger.Errorf("Event ID: STATUS_REPORT_FAILED, Description: Status report failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	logging.Logger.Infof("Event ID: STATUS_REPORT_SCHEDULED, Description: Status report scheduled with %q", schedule)
	return nil
}

// Stop waits for a running report to finish.
func (r *StatusReporter) Stop() {
	<-r.cron.Stop().Done()
}

func (r *StatusReporter) Run(ctx context.Context) error {
	milestones, err := r.milestones.GetAll(ctx)
	if err != nil {
		return err
	}
	projects, err := r.projects.GetAll(ctx)
	if err != nil {
		return err
	}

	now := r.now()
	milestoneCounts := zeroCounts()
	for i := range milestones {
		status := milestones[i].Status(now)
		milestoneCounts[status]++
		if status == models.StatusExpired {
			logging.Logger.Warnf("Event ID: MILESTONE_EXPIRED, Description: Milestone %s (%q) of project %s ended %s without completion",
				milestones[i].ID.Hex(), milestones[i].Name, milestones[i].ProjectReference.Hex(), milestones[i].End.Format(time.RFC3339))
		}
	}
	projectCounts := zeroCounts()
	unclassified := 0
	for i := range projects {
		status, ok := projects[i].Status(now)
		if !ok {
			unclassified++
			continue
		}
		projectCounts[status]++
	}

	for status, n := range milestoneCounts {
		metrics.MilestonesByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	for status, n := range projectCounts {
		metrics.ProjectsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}

	logging.Logger.Infof("Event ID: STATUS_REPORT, Description: %d milestone(s) %v, %d project(s) %v, %d without milestones",
		len(milestones), milestoneCounts, len(projects), projectCounts, unclassified)
	return nil
}

func zeroCounts() map[models.Status]int {
	counts := make(map[models.Status]int)
	for _, status := range models.Statuses() {
		counts[status] = 0
	}
	return counts
}
