package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aymane70/taskman/internal/api"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	stats, err := app.client.Statistics(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch statistics: %s", api.Message(err))
	}

	fmt.Println("Task Statistics")
	fmt.Println("───────────────")
	fmt.Printf("  Total:        %d\n", stats.TotalTasks)
	fmt.Println()
	fmt.Printf("  To Do:        %d\n", stats.TodoTasks)
	fmt.Printf("  In Progress:  %d\n", stats.InProgressTasks)
	fmt.Printf("  Done:         %d\n", stats.DoneTasks)
	fmt.Println()
	fmt.Printf("  High:         %d\n", stats.HighPriorityTasks)
	fmt.Printf("  Medium:       %d\n", stats.MediumPriorityTasks)
	fmt.Printf("  Low:          %d\n", stats.LowPriorityTasks)

	if stats.TotalTasks > 0 {
		pct := float64(stats.DoneTasks) / float64(stats.TotalTasks) * 100
		fmt.Println()
		fmt.Printf("  %.0f%% complete\n", pct)
	}
	return nil
}
