package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hirejourne/prep-agent/internal/poll"
)

var (
	processWait     bool
	processInterval time.Duration
	processAttempts int
)

var processCmd = &cobra.Command{
	Use:   "process <submission-id>",
	Short: "Run one submission through the pipeline",
	Long:  `Run a pending submission through research, generation, and report rendering. With --wait the command polls until the submission reaches a terminal status.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processWait, "wait", false, "Poll until the submission is complete or failed")
	processCmd.Flags().DurationVar(&processInterval, "interval", poll.DefaultInterval, "Polling interval with --wait")
	processCmd.Flags().IntVar(&processAttempts, "max-attempts", 0, "Maximum polling attempts with --wait (0 = unbounded)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	submissionID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid submission ID %q: %w", args[0], err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.pipeline.Process(ctx, submissionID); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	if !processWait {
		fmt.Printf("submission %s processed\n", submissionID)
		return nil
	}

	status, err := app.pipeline.WaitForTerminal(ctx, submissionID, poll.Options{
		Interval:    processInterval,
		MaxAttempts: processAttempts,
	})
	if err != nil {
		return err
	}
	fmt.Printf("submission %s is %s\n", submissionID, status)
	return nil
}
