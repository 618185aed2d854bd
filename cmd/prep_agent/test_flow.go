package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hirejourne/prep-agent/internal/poll"
	"github.com/hirejourne/prep-agent/internal/types"
)

var (
	flowCompany string
	flowJobDesc string
	flowEmail   string
)

var testFlowCmd = &cobra.Command{
	Use:   "test-flow",
	Short: "Run a smoke submission through the full pipeline",
	Long:  `Create a submission, process it, and poll until it reaches a terminal status. Exercises the database, storage, LLM, and PDF rendering end to end.`,
	RunE:  runTestFlow,
}

func init() {
	testFlowCmd.Flags().StringVar(&flowCompany, "company", "Acme Robotics", "Company name for the smoke submission")
	testFlowCmd.Flags().StringVar(&flowJobDesc, "job", "Senior Software Engineer building distributed control systems in Go.", "Job description text")
	testFlowCmd.Flags().StringVar(&flowEmail, "email", "smoke-test@example.com", "Notification email")
	rootCmd.AddCommand(testFlowCmd)
}

func runTestFlow(cmd *cobra.Command, _ []string) error {
	ctx := storageContext(cmd)
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.objects.VerifyWithRetry(ctx); err != nil {
		return fmt.Errorf("storage verification failed: %w", err)
	}

	submissionID, err := app.database.CreateSubmission(ctx, types.NewSubmissionParams{
		UserID:      uuid.New(),
		CompanyName: flowCompany,
		JobDesc:     flowJobDesc,
		Email:       flowEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	fmt.Printf("created submission %s\n", submissionID)

	start := time.Now()
	if err := app.pipeline.Process(ctx, submissionID); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	status, err := app.pipeline.WaitForTerminal(ctx, submissionID, poll.Options{MaxAttempts: 24})
	if err != nil {
		return err
	}
	fmt.Printf("submission reached %s in %s\n", status, time.Since(start).Round(time.Second))

	sub, err := app.database.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub != nil && sub.ReportLink != "" {
		fmt.Printf("report: %s\n", sub.ReportLink)
	}
	if sub != nil && sub.ErrorMessage != "" {
		fmt.Printf("error: %s\n", sub.ErrorMessage)
	}
	return nil
}
