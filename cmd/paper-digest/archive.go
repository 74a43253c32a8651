// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the history of rendered digests",
	Long: `Archive reads the SQLite run history that render writes when
--archive-dir is set. Use subcommands to list runs or show one run's papers.`,
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded digest runs, newest first",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRuns(cmd.OutOrStdout(), runs, jsonOutput)
}

func formatRuns(w io.Writer, runs []archive.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-10s  %-6s  %s\n", "Run", "Date", "Papers", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-10s  %-6d  %s\n", r.ID, r.DigestDate.Format("2006-01-02"), r.PaperCount, r.OutputPath)
	}
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the papers of one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Entries(context.Background(), runID)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatEntries(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatEntries(w io.Writer, entries []archive.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "Run has no papers.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-7s  %-12s  %-9s  %s\n", "Pos", "Topic", "ArXiv", "Rel/Nov", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		topic := strconv.Itoa(e.Topic)
		if e.Topic == 0 {
			topic = "unknown"
		}
		scores := "-"
		if e.Relevance != nil && e.Novelty != nil {
			scores = fmt.Sprintf("%d/%d", *e.Relevance, *e.Novelty)
		}
		fmt.Fprintf(w, "%-4d  %-7s  %-12s  %-9s  %s\n", e.Position, topic, e.ArxivID, scores, truncate(e.Title, 50))
	}
	return nil
}

// --- shared helpers ---

func openArchive() (*archive.Store, error) {
	dir := viper.GetString("archive-dir")
	if dir == "" {
		return nil, fmt.Errorf("no archive configured: set --archive-dir or PAPER_DIGEST_ARCHIVE_DIR")
	}
	return archive.NewStore(dir)
}

func init() {
	archiveListCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	archiveListCmd.Flags().Bool("json", false, "output runs as JSON")
	archiveShowCmd.Flags().Bool("json", false, "output entries as JSON")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)

	rootCmd.AddCommand(archiveCmd)
}
