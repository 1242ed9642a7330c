package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
)

func createCmd() *cobra.Command {
	var req taskv1.CreateTaskRequest
	var duration, occurrences int32

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a task, subtask or recurring series",
		Long: `Create a task. Without --date the task lands on today.

Examples:
  dayplan create "Write report" --start 09:00 --duration 90
  dayplan create "Proofread" --parent <task-id>
  dayplan create "Standup" --repeat WEEKDAYS --until 2024-06-30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Title = args[0]
			req.Duration = duration
			req.Occurrences = occurrences
			req.IsRecurring = req.RecurrencePattern != ""

			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.CreateTask(ctx, &req)
				if err != nil {
					return err
				}
				return printTask(resp.Task)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&req.Priority, "priority", "p", "", "free-form priority label")
	cmd.Flags().StringVar(&req.Date, "date", "", "day of the task (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.StartTime, "start", "", "start time (HH:MM)")
	cmd.Flags().Int32Var(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().StringVar(&req.ParentId, "parent", "", "parent task id")
	cmd.Flags().StringVar(&req.RecurrencePattern, "repeat", "", "recurrence pattern (DAILY, WEEKLY, WEEKDAYS, MONTHLY)")
	cmd.Flags().StringVar(&req.RecurrenceEndDate, "until", "", "last day of the series (YYYY-MM-DD)")
	cmd.Flags().Int32Var(&occurrences, "occurrences", 0, "instances to generate up front")

	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.GetTask(ctx, &taskv1.GetTaskRequest{Id: args[0]})
				if err != nil {
					return err
				}
				return printTask(resp.Task)
			})
		},
	}
}

func listCmd() *cobra.Command {
	var req taskv1.ListTasksRequest
	var tree bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks of a day, children of a task, or a series",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.ListTasks(ctx, &req)
				if err != nil {
					return err
				}
				if tree && !outputJSON {
					printTree(resp.Tasks)
					return nil
				}
				return printTasks(resp.Tasks)
			})
		},
	}

	cmd.Flags().StringVar(&req.Date, "date", "", "only tasks on this day")
	cmd.Flags().StringVar(&req.ParentId, "parent", "", "only direct subtasks of this task")
	cmd.Flags().BoolVar(&req.RootsOnly, "roots", false, "only top-level tasks")
	cmd.Flags().StringVar(&req.SeriesId, "series", "", "members of the series this task belongs to")
	cmd.Flags().BoolVar(&tree, "tree", false, "indent subtasks under their parents")

	return cmd
}

func updateCmd() *cobra.Command {
	var (
		title, description, priority, review string
		date, start, status, reason          string
		repeat, until                        string
		duration, completion, occurrences    int32
		moveSubtasks, recurring              bool
	)

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of a task; only the flags given are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			req := &taskv1.UpdateTaskRequest{
				Id:           args[0],
				Occurrences:  occurrences,
				MoveSubtasks: moveSubtasks,
			}
			if flags.Changed("title") {
				req.Title = &title
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("priority") {
				req.Priority = &priority
			}
			if flags.Changed("review") {
				req.Review = &review
			}
			if flags.Changed("date") {
				req.Date = &date
			}
			if flags.Changed("start") {
				req.StartTime = &start
			}
			if flags.Changed("duration") {
				req.Duration = &duration
			}
			if flags.Changed("status") {
				req.Status = &status
			}
			if flags.Changed("completion") {
				req.Completion = &completion
			}
			if flags.Changed("reason") {
				req.CancelReason = &reason
			}
			if flags.Changed("recurring") {
				req.IsRecurring = &recurring
			}
			if flags.Changed("repeat") {
				req.RecurrencePattern = &repeat
			}
			if flags.Changed("until") {
				req.RecurrenceEndDate = &until
			}

			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.UpdateTask(ctx, req)
				if err != nil {
					return err
				}
				return printTask(resp.Task)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority label")
	cmd.Flags().StringVar(&review, "review", "", "review notes")
	cmd.Flags().StringVar(&date, "date", "", "move the task (and its subtasks) to this day")
	cmd.Flags().StringVar(&start, "start", "", "start time (HH:MM), empty clears it")
	cmd.Flags().Int32Var(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().StringVar(&status, "status", "", "TODO, IN_PROGRESS, COMPLETED or CANCELLED")
	cmd.Flags().Int32Var(&completion, "completion", 0, "completion percentage")
	cmd.Flags().StringVar(&reason, "reason", "", "cancel reason")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "turn the task into a series, or back")
	cmd.Flags().StringVar(&repeat, "repeat", "", "recurrence pattern")
	cmd.Flags().StringVar(&until, "until", "", "last day of the series")
	cmd.Flags().Int32Var(&occurrences, "occurrences", 0, "instances to generate when converting to a series")
	cmd.Flags().BoolVar(&moveSubtasks, "move-subtasks", false, "apply the progress change to direct subtasks too")

	return cmd
}

func completeCmd() *cobra.Command {
	var withSubtasks bool

	cmd := &cobra.Command{
		Use:   "complete [id]",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := "COMPLETED"
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.UpdateTask(ctx, &taskv1.UpdateTaskRequest{
					Id:           args[0],
					Status:       &status,
					MoveSubtasks: withSubtasks,
				})
				if err != nil {
					return err
				}
				return printTask(resp.Task)
			})
		},
	}

	cmd.Flags().BoolVar(&withSubtasks, "with-subtasks", false, "complete direct subtasks as well")
	return cmd
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [id] [reason]",
		Short: "Cancel a task with a reason",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := "CANCELLED"
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.UpdateTask(ctx, &taskv1.UpdateTaskRequest{
					Id:           args[0],
					Status:       &status,
					CancelReason: &args[1],
				})
				if err != nil {
					return err
				}
				return printTask(resp.Task)
			})
		},
	}
}

func deleteCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.DeleteTask(ctx, &taskv1.DeleteTaskRequest{Id: args[0], DeleteAll: all})
				if err != nil {
					return err
				}
				fmt.Printf("Deleted %d task(s)\n", resp.Deleted)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "series", false, "delete every instance of the task's recurring series")
	return cmd
}

func carryOverCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:     "carry-over [id] [date]",
		Aliases: []string{"postpone"},
		Short:   "Move the unfinished part of a task to another day",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.CarryOverTask(ctx, &taskv1.CarryOverTaskRequest{
					Id:      args[0],
					NewDate: args[1],
					Reason:  reason,
				})
				if err != nil {
					return err
				}
				return printTask(resp.Task)
			})
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "why the task is postponed")
	return cmd
}

func reparentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [id] [parent-id]",
		Short: "Move a task under another task; omit the parent to make it top-level",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &taskv1.ReparentTaskRequest{Id: args[0]}
			if len(args) == 2 {
				req.ParentId = args[1]
			}
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.ReparentTask(ctx, req)
				if err != nil {
					return err
				}
				return printTask(resp.Task)
			})
		},
	}
}
