package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"running-page/internal/config"
	"running-page/internal/importer"
	"running-page/internal/store"
)

func main() {
	// Disable structured logging for CLI
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors
	})))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" {
		printUsage()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the store; this also creates the schema
	st, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch command {
	case "init":
		fmt.Printf("✓ Schema ready in %s\n", store.Describe(cfg))
	case "import-fit":
		handleImportFIT(ctx, st, os.Args[2:])
	case "import-json":
		handleImportJSON(ctx, st, os.Args[2:])
	case "list":
		handleList(ctx, st)
	case "show":
		handleShow(ctx, st, os.Args[2:])
	case "delete":
		handleDelete(ctx, st, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`running-page CLI - Activity Management

Usage:
  cli <command> [options]

Commands:
  init                  Create the activities schema
  import-fit <files>    Import one or more FIT activity files
  import-json <file>    Import an activities.json export
  list                  List stored activities, newest first
  show <run_id>         Show one stored activity
  delete <run_id>       Delete a stored activity
  help                  Show this help message

Examples:
  cli init
  cli import-fit ~/garmin/*.fit
  cli import-json src/static/activities.json
  cli list
  cli show 9223801

Environment Variables:
  DATABASE_PATH   - SQLite database file (default: ./data.db)
  DATABASE_URL    - Postgres connection URL, overrides DATABASE_PATH`)
}

func handleImportFIT(ctx context.Context, st store.Store, paths []string) {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: import-fit needs at least one file")
		os.Exit(1)
	}

	im := importer.New(st)
	failed := 0
	for _, path := range paths {
		a, err := im.ImportFIT(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			failed++
			continue
		}
		fmt.Printf("✓ %s: %s %s km on %s\n", path, a.Type, a.Kilometres(), a.StartDateLocal)
	}

	fmt.Printf("\nImported %d of %d file(s)\n", len(paths)-failed, len(paths))
	if failed > 0 {
		os.Exit(1)
	}
}

func handleImportJSON(ctx context.Context, st store.Store, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: import-json needs exactly one file")
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	n, err := importer.New(st).ImportJSON(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Import stopped after %d activities: %v\n", n, err)
		os.Exit(1)
	}

	fmt.Printf("✓ Imported %d activities\n", n)
}

func handleList(ctx context.Context, st store.Store) {
	runs, err := st.ListActivities(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list activities: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No activities found.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tDATE\tNAME\tKM\tPACE\tBPM\tTIME")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RunID, r.StartDateLocal, r.Name, r.Kilometres(), r.Pace(), r.HeartRate(), r.RunTime())
	}
	tw.Flush()

	count, err := st.CountActivities(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to count activities: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n%d activities\n", count)
}

func parseRunID(command string, args []string) int64 {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s needs exactly one run ID\n", command)
		os.Exit(1)
	}
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid run ID '%s'\n", args[0])
		os.Exit(1)
	}
	return runID
}

func handleShow(ctx context.Context, st store.Store, args []string) {
	runID := parseRunID("show", args)

	a, err := st.GetActivity(ctx, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if a == nil {
		fmt.Fprintf(os.Stderr, "Error: Activity %d not found\n", runID)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Run ID:\t%d\n", a.RunID)
	fmt.Fprintf(tw, "Name:\t%s\n", a.Name)
	fmt.Fprintf(tw, "Type:\t%s\n", a.Type)
	fmt.Fprintf(tw, "Date:\t%s\n", a.StartDateLocal)
	fmt.Fprintf(tw, "Distance:\t%s km\n", a.Kilometres())
	fmt.Fprintf(tw, "Pace:\t%s\n", a.Pace())
	fmt.Fprintf(tw, "Heart rate:\t%s\n", a.HeartRate())
	fmt.Fprintf(tw, "Moving time:\t%s\n", a.RunTime())
	tw.Flush()
}

func handleDelete(ctx context.Context, st store.Store, args []string) {
	runID := parseRunID("delete", args)

	if err := st.DeleteActivity(ctx, runID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Deleted activity %d\n", runID)
}
