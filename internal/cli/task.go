package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task",
	Long: `Create a task on the server.

Examples:
  taskman add "Write the quarterly report"
  taskman add "Fix the build" --priority HIGH --due 2026-09-15`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var (
	taskDescription string
	taskStatus      string
	taskPriority    string
	taskDue         string
	taskTitle       string
	deleteYes       bool
)

func init() {
	addCmd.Flags().StringVarP(&taskDescription, "desc", "d", "", "Task description")
	addCmd.Flags().StringVar(&taskStatus, "status", "", "Status (TODO, IN_PROGRESS, DONE)")
	addCmd.Flags().StringVar(&taskPriority, "priority", "", "Priority (LOW, MEDIUM, HIGH)")
	addCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")

	editCmd.Flags().StringVarP(&taskTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&taskDescription, "desc", "d", "", "New description")
	editCmd.Flags().StringVar(&taskStatus, "status", "", "New status (TODO, IN_PROGRESS, DONE)")
	editCmd.Flags().StringVar(&taskPriority, "priority", "", "New priority (LOW, MEDIUM, HIGH)")
	editCmd.Flags().StringVar(&taskDue, "due", "", "New due date (YYYY-MM-DD, or 'none' to clear)")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func parseDue(value string) (*time.Time, error) {
	if value == "" || value == "none" {
		return nil, nil
	}
	due, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", value)
	}
	return &due, nil
}

// findTask resolves a full id or a unique short-id prefix
func findTask(ctx context.Context, app *app, idOrPrefix string) (model.Task, error) {
	task, err := app.client.GetTask(ctx, idOrPrefix)
	if err == nil {
		return task, nil
	}
	if !api.IsKind(err, api.KindNotFound) {
		return model.Task{}, err
	}

	page, err := app.client.ListTasks(ctx, api.ListParams{
		SortBy: "createdAt", SortDir: "desc", Page: 0, Size: 100,
	})
	if err != nil {
		return model.Task{}, err
	}

	var match *model.Task
	for i := range page.Content {
		if strings.HasPrefix(page.Content[i].ID, idOrPrefix) {
			if match != nil {
				return model.Task{}, fmt.Errorf("id %q is ambiguous", idOrPrefix)
			}
			match = &page.Content[i]
		}
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("no task with id %q", idOrPrefix)
	}
	return *match, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	input := model.NewTaskInput()
	input.Title = strings.Join(args, " ")
	input.Description = taskDescription
	if taskStatus != "" {
		input.Status = model.Status(strings.ToUpper(taskStatus))
	}
	if taskPriority != "" {
		input.Priority = model.Priority(strings.ToUpper(taskPriority))
	}
	due, err := parseDue(taskDue)
	if err != nil {
		return err
	}
	input.DueDate = due

	task, err := app.client.CreateTask(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to create task: %s", api.Message(err))
	}

	fmt.Printf("✓ Added: %s (%s)\n", task.Title, shortID(task.ID))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	ctx := context.Background()
	task, err := findTask(ctx, app, args[0])
	if err != nil {
		return err
	}

	input := model.TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
	}
	if cmd.Flags().Changed("title") {
		input.Title = taskTitle
	}
	if cmd.Flags().Changed("desc") {
		input.Description = taskDescription
	}
	if taskStatus != "" {
		input.Status = model.Status(strings.ToUpper(taskStatus))
	}
	if taskPriority != "" {
		input.Priority = model.Priority(strings.ToUpper(taskPriority))
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDue(taskDue)
		if err != nil {
			return err
		}
		input.DueDate = due
	}

	updated, err := app.client.UpdateTask(ctx, task.ID, input)
	if err != nil {
		return fmt.Errorf("failed to update task: %s", api.Message(err))
	}

	fmt.Printf("✓ Updated: %s (%s)\n", updated.Title, shortID(updated.ID))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	ctx := context.Background()
	task, err := findTask(ctx, app, args[0])
	if err != nil {
		return err
	}

	if app.cfg.ConfirmDelete && !deleteYes {
		answer := promptLine(fmt.Sprintf("Delete %q? [y/N]: ", task.Title))
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := app.client.DeleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %s", api.Message(err))
	}

	fmt.Printf("✓ Deleted: %s\n", task.Title)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
