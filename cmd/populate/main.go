// Command populate seeds the task store with sample tasks for development
// and demos.
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
	"github.com/Bakar31/ai-task-manager/internal/app/repositories"
	"github.com/Bakar31/ai-task-manager/internal/app/services"
)

func initConfig() {
	viper.SetEnvPrefix("TASKMAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func sampleTasks() []models.Task {
	due := func(s string) *time.Time {
		d, err := time.Parse(models.DueDateLayout, s)
		if err != nil {
			log.Fatal(err)
		}
		return &d
	}

	return []models.Task{
		{
			Title:       "Complete AI assignment",
			Description: "Finish the machine learning project for CS101",
			DueDate:     due("2025-12-15"),
			Priority:    models.PriorityHigh,
			Status:      models.StatusTodo,
		},
		{
			Title:       "Grocery shopping",
			Description: "Buy milk, eggs, and bread",
			DueDate:     due("2025-12-10"),
			Priority:    models.PriorityMedium,
			Status:      models.StatusTodo,
		},
		{
			Title:       "Call mom",
			Description: "Wish her happy birthday",
			DueDate:     due("2025-12-12"),
			Priority:    models.PriorityHigh,
			Status:      models.StatusInProgress,
		},
		{
			Title:       "Read Go book",
			Description: "Chapters on concurrency",
			Priority:    models.PriorityLow,
			Status:      models.StatusInProgress,
		},
		{
			Title:       "Submit expense report",
			Description: "October receipts",
			DueDate:     due("2025-11-30"),
			Priority:    models.PriorityMedium,
			Status:      models.StatusDone,
		},
	}
}

func main() {
	initConfig()

	dsn := viper.GetString("postgres.dsn")
	if dsn == "" {
		log.Fatal("postgres.dsn is not configured")
	}

	repo, err := repositories.NewPostgresTaskRepo(dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	service := services.NewTaskService(repo, nil, nil)

	ctx := context.Background()
	added := 0
	for _, t := range sampleTasks() {
		if _, err := service.Add(ctx, t); err != nil {
			log.Fatalf("failed to add sample task %q: %v", t.Title, err)
		}
		added++
	}

	log.Printf("Successfully added %d sample tasks.", added)
}
