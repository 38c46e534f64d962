package db

import (
	"context"
	"fmt"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// Seed fills an empty database with a small demo team. It reports whether
// anything was inserted; a database that already has projects is left alone.
func (db *DB) Seed(ctx context.Context, now time.Time) (bool, error) {
	count, err := db.ProjectCount(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	projects := []struct{ name, desc, color string }{
		{"Website Redesign", "New marketing site and blog", "#7aa2f7"},
		{"Mobile App", "iOS and Android client", "#9ece6a"},
		{"Infrastructure", "CI, hosting and monitoring", "#e0af68"},
	}
	projectIDs := make([]int64, len(projects))
	for i, p := range projects {
		created, err := db.CreateProject(ctx, p.name, p.desc, p.color)
		if err != nil {
			return false, fmt.Errorf("seed project %q: %w", p.name, err)
		}
		projectIDs[i] = created.ID
	}

	users := []struct{ name, role, avatar string }{
		{"Alex Morgan", "Project Manager", "AM"},
		{"Jordan Lee", "Frontend Developer", "JL"},
		{"Sam Rivera", "Backend Developer", "SR"},
		{"Casey Kim", "Designer", "CK"},
	}
	userIDs := make([]int64, len(users))
	for i, u := range users {
		created, err := db.CreateUser(ctx, u.name, u.role, u.avatar)
		if err != nil {
			return false, fmt.Errorf("seed user %q: %w", u.name, err)
		}
		userIDs[i] = created.ID
	}

	day := 24 * time.Hour
	due := func(days int) *time.Time {
		d := now.UTC().Truncate(day).Add(time.Duration(days) * day)
		return &d
	}
	hours := func(h float64) *float64 { return &h }
	completed := now.UTC().Add(-2 * day)

	tasks := []models.Task{
		{Title: "Design homepage mockups", Description: "Create wireframes and high fidelity mockups for the new homepage",
			ProjectID: projectIDs[0], AssignedTo: userIDs[3], Priority: models.PriorityHigh, Status: models.StatusInProgress,
			DueDate: due(5), EstimatedHours: hours(16), Tags: []string{"design", "ui"}},
		{Title: "Set up blog CMS", Description: "Evaluate headless CMS options and wire the blog templates",
			ProjectID: projectIDs[0], AssignedTo: userIDs[1], Priority: models.PriorityMedium, Status: models.StatusTodo,
			DueDate: due(14), EstimatedHours: hours(8), Tags: []string{"frontend"}},
		{Title: "Implement login flow", Description: "Email and password login with session refresh on both platforms",
			ProjectID: projectIDs[1], AssignedTo: userIDs[2], Priority: models.PriorityHigh, Status: models.StatusTodo,
			DueDate: due(3), EstimatedHours: hours(12), Tags: []string{"auth", "backend"}},
		{Title: "Push notification spike", Description: "Investigate push providers and document the tradeoffs",
			ProjectID: projectIDs[1], AssignedTo: userIDs[1], Priority: models.PriorityLow, Status: models.StatusTodo,
			Tags: []string{"research"}},
		{Title: "Migrate CI pipeline", Description: "Move builds to the new runners and cache dependencies",
			ProjectID: projectIDs[2], AssignedTo: userIDs[2], Priority: models.PriorityMedium, Status: models.StatusCompleted,
			EstimatedHours: hours(6), CompletedAt: &completed, Tags: []string{"ci"}},
		{Title: "Uptime dashboard", Description: "Add alerting thresholds and an uptime dashboard for the API",
			ProjectID: projectIDs[2], AssignedTo: userIDs[0], Priority: models.PriorityLow, Status: models.StatusInProgress,
			DueDate: due(21), Tags: []string{}},
	}
	for _, t := range tasks {
		t.CreatedAt = now.UTC().Add(-7 * day)
		t.UpdatedAt = t.CreatedAt
		t.CreatedBy = userIDs[0]
		if _, err := db.CreateTask(ctx, t); err != nil {
			return false, fmt.Errorf("seed task %q: %w", t.Title, err)
		}
	}

	return true, nil
}
