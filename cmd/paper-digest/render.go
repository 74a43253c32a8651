// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/archive"
	"github.com/pdiddy/paper-digest/internal/classify"
	"github.com/pdiddy/paper-digest/internal/criteria"
	"github.com/pdiddy/paper-digest/internal/papers"
	"github.com/pdiddy/paper-digest/internal/render"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the Markdown digest for a scored paper set",
	Long: `Render loads the criteria and the paper set, files every paper under
its topic, and writes the digest. The whole run aborts on the first
missing required field; no partial digest is written.

Use --output - to print the digest to stdout.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("output", defaultOutputPath, "Markdown output path, or - for stdout")
	renderCmd.Flags().String("date", "", "digest date as YYYY-MM-DD (default today)")

	viper.BindPFlag("output", renderCmd.Flags().Lookup("output"))
	viper.BindPFlag("date", renderCmd.Flags().Lookup("date"))

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := digestConfig()
	if err != nil {
		return err
	}
	log := cmd.ErrOrStderr()

	crit, list, groups, err := loadAndGroup(cfg, log)
	if err != nil {
		return err
	}

	doc := render.Compose(crit, list, groups, cfg.Date)
	if err := writeOutput(cfg.OutputPath, doc, cmd.OutOrStdout()); err != nil {
		return err
	}
	if cfg.OutputPath != "-" {
		fmt.Fprintf(log, "wrote %s (%d papers)\n", cfg.OutputPath, len(list))
	}

	if cfg.ArchiveDir == "" {
		return nil
	}
	store, err := archive.NewStore(cfg.ArchiveDir)
	if err != nil {
		return err
	}
	defer store.Close()

	run := archive.Run{
		DigestDate: cfg.Date,
		CreatedAt:  time.Now(),
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
	}
	id, err := store.Record(context.Background(), run, list, groups)
	if err != nil {
		return err
	}
	fmt.Fprintf(log, "archived run %d in %s\n", id, cfg.ArchiveDir)
	return nil
}

// loadAndGroup runs the loader and classifier stages shared by render and
// classify.
func loadAndGroup(cfg types.DigestConfig, log io.Writer) ([]types.Criterion, []types.Paper, *classify.Groups, error) {
	crit, err := criteria.Load(cfg.CriteriaPath)
	if err != nil {
		return nil, nil, nil, err
	}
	fmt.Fprintf(log, "loaded %d criteria from %s\n", len(crit), cfg.CriteriaPath)

	list, err := papers.Load(cfg.InputPath)
	if err != nil {
		return nil, nil, nil, err
	}
	fmt.Fprintf(log, "loaded %d papers from %s\n", len(list), cfg.InputPath)

	groups, err := classify.Group(list, len(crit), cfg.Overflow, log)
	if err != nil {
		return nil, nil, nil, err
	}
	fmt.Fprintf(log, "classified %d papers into %d topics\n", len(list), groups.NonEmpty())
	return crit, list, groups, nil
}

// writeOutput writes doc to path, creating parent directories. The path "-"
// writes to stdout instead.
func writeOutput(path, doc string, stdout io.Writer) error {
	if path == "-" {
		_, err := io.WriteString(stdout, doc)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &types.FileAccessError{Op: "creating output directory", Path: dir, Err: err}
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return &types.FileAccessError{Op: "writing digest", Path: path, Err: err}
	}
	return nil
}
