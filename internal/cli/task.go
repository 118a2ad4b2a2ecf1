package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// newTaskCommand creates the task command.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCommand(c),
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskMoveCommand(c),
		newTaskEditCommand(c),
		newTaskRmCommand(c),
	)
	return cmd
}

func newTaskAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Assignee    string
		Priority    string
		Deadline    string
		OrderID     string
		ParentID    string
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a manual task",
		Long: `Create a manual task.

With --parent the task becomes a subtask and belongs to the parent's order.

Examples:
  shopdesk task add --title "Call supplier"
  shopdesk task add --order <order-id> --title "Gift wrap" --priority high
  shopdesk task add --parent <task-id> --title "Buy ribbon" --due 2026-05-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.CreateTaskInput{
				Title:       opts.Title,
				Description: opts.Description,
				Assignee:    opts.Assignee,
				Priority:    domain.Priority(opts.Priority),
			}
			if opts.OrderID != "" {
				in.OrderID = &opts.OrderID
			}
			if opts.ParentID != "" {
				in.ParentTaskID = &opts.ParentID
			}
			if opts.Deadline != "" {
				d, err := parseDate("due", opts.Deadline)
				if err != nil {
					return err
				}
				in.Deadline = &d
			}

			out, err := c.CreateTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Person responsible")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: low, medium or high")
	cmd.Flags().StringVar(&opts.Deadline, "due", "", "Deadline (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&opts.OrderID, "order", "", "Order the task belongs to")
	cmd.Flags().StringVar(&opts.ParentID, "parent", "", "Parent task (creates a subtask)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		OrderID   string
		ProductID string
		ParentID  string
		Status    string
		TaskType  string
		RootOnly  bool
		All       bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks, oldest first.

Completed and cancelled tasks are hidden unless --all is given or --status
asks for them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.ListTasksInput{
				RootOnly:        opts.RootOnly,
				IncludeTerminal: opts.All,
			}
			if opts.OrderID != "" {
				in.OrderID = &opts.OrderID
			}
			if opts.ProductID != "" {
				in.ProductID = &opts.ProductID
			}
			if opts.ParentID != "" {
				in.ParentTaskID = &opts.ParentID
			}
			if opts.Status != "" {
				in.Status = domain.Ptr(domain.Status(opts.Status))
			}
			if opts.TaskType != "" {
				in.TaskType = domain.Ptr(domain.TaskType(opts.TaskType))
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.OrderID, "order", "", "Filter by order")
	cmd.Flags().StringVar(&opts.ProductID, "product", "", "Filter by product")
	cmd.Flags().StringVar(&opts.ParentID, "parent", "", "Only subtasks of this task")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status (todo, in-progress, completed, cancelled)")
	cmd.Flags().StringVar(&opts.TaskType, "type", "", "Filter by type (manual, automatic)")
	cmd.Flags().BoolVar(&opts.RootOnly, "root", false, "Only top-level tasks")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include completed and cancelled tasks")
	return cmd
}

func newTaskShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			t := out.Task
			_, _ = fmt.Fprintf(w, "%s %s\n", t.ID, t.Title)
			_, _ = fmt.Fprintf(w, "Status:     %s\n", t.Status.Display())
			_, _ = fmt.Fprintf(w, "Type:       %s\n", t.TaskType)
			_, _ = fmt.Fprintf(w, "Priority:   %s\n", orDash(string(t.Priority)))
			_, _ = fmt.Fprintf(w, "Assignee:   %s\n", orDash(t.Assignee))
			_, _ = fmt.Fprintf(w, "Deadline:   %s\n", formatDate(t.Deadline))
			_, _ = fmt.Fprintf(w, "Order:      %s\n", orDash(domain.StringValue(t.OrderID)))
			_, _ = fmt.Fprintf(w, "Parent:     %s\n", orDash(domain.StringValue(t.ParentTaskID)))
			_, _ = fmt.Fprintf(w, "Product:    %s\n", orDash(domain.StringValue(t.ProductID)))
			_, _ = fmt.Fprintf(w, "Ingredient: %s\n", orDash(domain.StringValue(t.IngredientID)))
			if t.Description != "" {
				_, _ = fmt.Fprintf(w, "\n%s\n", t.Description)
			}
			if len(out.Subtasks) > 0 {
				_, _ = fmt.Fprintf(w, "\nSubtasks (%d):\n", len(out.Subtasks))
				for _, sub := range out.Subtasks {
					_, _ = fmt.Fprintf(w, "  [%s] %s (%s)\n", sub.Status, sub.Title, sub.ID)
				}
			}
			return nil
		},
	}
}

func newTaskMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> [status]",
		Short: "Move a task to another status",
		Long: `Move a task to another status.

Without a status the task advances one step: todo -> in-progress -> completed.
Any open task can be moved to cancelled. Completed and cancelled are final.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.MoveTaskInput{TaskID: args[0]}
			if len(args) == 2 {
				in.Status = domain.Status(args[1])
			}
			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s: %s -> %s\n", out.Task.ID, out.From, out.Task.Status)
			return nil
		},
	}
}

func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Assignee    string
		Priority    string
		Deadline    string
		NoDeadline  bool
	}

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			in := usecase.EditTaskInput{
				TaskID:        args[0],
				ClearDeadline: opts.NoDeadline,
			}
			if flags.Changed("title") {
				in.Title = &opts.Title
			}
			if flags.Changed("body") {
				in.Description = &opts.Description
			}
			if flags.Changed("assignee") {
				in.Assignee = &opts.Assignee
			}
			if flags.Changed("priority") {
				in.Priority = domain.Ptr(domain.Priority(opts.Priority))
			}
			if opts.Deadline != "" {
				d, err := parseDate("due", opts.Deadline)
				if err != nil {
					return err
				}
				in.Deadline = &d
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "New assignee (empty to unassign)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority (empty to clear)")
	cmd.Flags().StringVar(&opts.Deadline, "due", "", "New deadline")
	cmd.Flags().BoolVar(&opts.NoDeadline, "no-due", false, "Remove the deadline")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")
	return cmd
}

func newTaskRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", out.Deleted)
			return nil
		},
	}
}
