package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
	"github.com/gurkanbulca/dayplan/internal/config"
	"github.com/gurkanbulca/dayplan/pkg/auth"
	"github.com/gurkanbulca/dayplan/pkg/plan"
)

func extendCmd() *cobra.Command {
	var occurrences int32

	cmd := &cobra.Command{
		Use:   "extend [id]",
		Short: "Generate more instances after the last one of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.ExtendSeries(ctx, &taskv1.ExtendSeriesRequest{Id: args[0], Occurrences: occurrences})
				if err != nil {
					return err
				}
				if len(resp.Tasks) == 0 && !outputJSON {
					fmt.Println("Series is already complete up to its end date")
					return nil
				}
				return printTasks(resp.Tasks)
			})
		},
	}

	cmd.Flags().Int32VarP(&occurrences, "occurrences", "n", 7, "instances to add")
	return cmd
}

func endCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end [id]",
		Short: "Stop a series from producing new instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				if _, err := client.EndSeries(ctx, &taskv1.EndSeriesRequest{Id: args[0]}); err != nil {
					return err
				}
				fmt.Println("Series ended")
				return nil
			})
		},
	}
}

func importCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Create a tree of tasks from a YAML plan (use - for stdin)",
		Long: `Create a tree of tasks from a YAML plan in one batch.

Example plan:
  date: 2024-03-04
  tasks:
    - title: Ship release
      startTime: "09:00"
      duration: 2h
      subtasks:
        - title: Tag build
        - title: Write notes
          duration: 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			doc, err := plan.Parse(r)
			if err != nil {
				return err
			}

			return withClient(false, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				resp, err := client.ImportPlan(ctx, doc.Request(date))
				if err != nil {
					return err
				}
				if outputJSON {
					return printTasks(resp.Tasks)
				}
				fmt.Printf("Imported %d task(s)\n", len(resp.Tasks))
				printTree(resp.Tasks)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "override the plan's date")
	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream task events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(true, func(ctx context.Context, client taskv1.TaskServiceClient) error {
				stream, err := client.WatchTasks(ctx, &taskv1.WatchTasksRequest{})
				if err != nil {
					return err
				}
				for {
					ev, err := stream.Recv()
					if errors.Is(err, io.EOF) {
						return nil
					}
					if err != nil {
						return err
					}
					if err := printEvent(ev); err != nil {
						return err
					}
				}
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var name string
	var ttl time.Duration
	var save bool

	cmd := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Issue a bearer token signed with the server's JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				warnf("no .env file found, using environment")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl == 0 {
				ttl = cfg.JWT.AccessTokenDuration
			}

			token, expiresAt, err := auth.NewTokenManager(cfg.JWT.Secret, ttl).Generate(args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Token expires at %s\n", expiresAt.Format(time.RFC3339))
			if save {
				path, err := saveToken(token)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Saved to %s\n", path)
				return nil
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name stored in the token")
	cmd.Flags().BoolVar(&save, "save", false, "store the token for later commands instead of printing it")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_ACCESS_TOKEN_DURATION)")
	return cmd
}
