package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks from the server, filtered and sorted.

Examples:
  taskman list
  taskman list --search report --status TODO
  taskman list --sort dueDate --dir asc --page 1`,
	RunE: runList,
}

var (
	listSearch   string
	listStatus   string
	listPriority string
	listSortBy   string
	listSortDir  string
	listPage     int
	listSize     int
)

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search in title and description")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (TODO, IN_PROGRESS, DONE)")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority (LOW, MEDIUM, HIGH)")
	listCmd.Flags().StringVar(&listSortBy, "sort", "createdAt", "Sort field (createdAt, dueDate, title, status, priority)")
	listCmd.Flags().StringVar(&listSortDir, "dir", "desc", "Sort direction (asc, desc)")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 0, "Page index, starting at 0")
	listCmd.Flags().IntVar(&listSize, "size", 0, "Page size (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	status := model.Status(strings.ToUpper(listStatus))
	if listStatus != "" && !status.Valid() {
		return fmt.Errorf("invalid status %q", listStatus)
	}
	priority := model.Priority(strings.ToUpper(listPriority))
	if listPriority != "" && !priority.Valid() {
		return fmt.Errorf("invalid priority %q", listPriority)
	}

	size := listSize
	if size <= 0 {
		size = app.cfg.PageSize
	}

	page, err := app.client.ListTasks(context.Background(), api.ListParams{
		Search:   listSearch,
		Status:   status,
		Priority: priority,
		SortBy:   listSortBy,
		SortDir:  listSortDir,
		Page:     listPage,
		Size:     size,
	})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %s", api.Message(err))
	}

	if len(page.Content) == 0 {
		fmt.Println("No tasks found. Add one with: taskman add \"Your task\"")
		return nil
	}

	fmt.Printf("\nTasks (%d total)\n", page.TotalElements)
	fmt.Println(strings.Repeat("─", 72))
	for _, t := range page.Content {
		printTask(t)
	}
	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("Page %d of %d\n\n", page.PageNumber+1, page.TotalPages)

	return nil
}

func printTask(t model.Task) {
	icon := "[ ]"
	switch t.Status {
	case model.StatusInProgress:
		icon = "[~]"
	case model.StatusDone:
		icon = "[x]"
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if t.Overdue() {
			due += "!"
		}
	}

	title := t.Title
	if len(title) > 40 {
		title = title[:37] + "..."
	}

	shortID := t.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	fmt.Printf("  %s  %-8s  %-40s  %-8s  %s\n", icon, shortID, title, due, t.Priority)
}
