// Command dayplan talks to a running dayplan server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
)

var Version = "dev"

var (
	serverAddr string
	authToken  string
	outputJSON bool
	timeout    time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dayplan",
		Short:         "Plan your day: tasks, subtasks, recurring series and carry-overs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", envOr("DAYPLAN_ADDR", "localhost:50051"), "server address")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("DAYPLAN_TOKEN"), "bearer token (see the token command)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(completeCmd())
	rootCmd.AddCommand(cancelCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(carryOverCmd())
	rootCmd.AddCommand(reparentCmd())
	rootCmd.AddCommand(extendCmd())
	rootCmd.AddCommand(endCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		os.Exit(1)
	}
}

// withClient dials the server and runs fn with an authenticated context.
// Streaming commands pass stream=true to skip the request timeout.
func withClient(stream bool, fn func(ctx context.Context, client taskv1.TaskServiceClient) error) error {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent("dayplan-cli/"+Version),
	)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", serverAddr, err)
	}
	defer conn.Close()

	ctx := context.Background()
	if !stream {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if authToken == "" {
		authToken = savedToken()
	}
	if authToken != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+authToken)
	}

	return fn(ctx, taskv1.NewTaskServiceClient(conn))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
