package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Object storage maintenance",
}

var verifyStorageCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify buckets exist and storage is reachable",
	RunE:  runVerifyStorage,
}

var migrateStorageCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move legacy resume objects into the user-scoped key layout",
	RunE:  runMigrateStorage,
}

var syncStorageCmd = &cobra.Command{
	Use:   "sync",
	Short: "Clear database references to objects that no longer exist",
	RunE:  runSyncStorage,
}

func init() {
	storageCmd.AddCommand(verifyStorageCmd, migrateStorageCmd, syncStorageCmd)
	rootCmd.AddCommand(storageCmd)
}

func storageContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runVerifyStorage(cmd *cobra.Command, _ []string) error {
	ctx := storageContext(cmd)
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.objects.VerifyWithRetry(ctx); err != nil {
		return err
	}
	fmt.Println("storage verified")
	return nil
}

func runMigrateStorage(cmd *cobra.Command, _ []string) error {
	ctx := storageContext(cmd)
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.objects.MigrateLegacyFiles(ctx, app.database)
	if err != nil {
		return err
	}
	fmt.Printf("migrated %d file(s)\n", result.MigratedFiles)
	for _, msg := range result.Errors {
		fmt.Printf("  error: %s\n", msg)
	}
	return nil
}

func runSyncStorage(cmd *cobra.Command, _ []string) error {
	ctx := storageContext(cmd)
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.objects.SyncReferences(ctx, app.database)
	if err != nil {
		return err
	}
	fmt.Printf("checked %d reference(s), fixed %d\n", result.Total, result.Fixed)
	return nil
}
