// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/classify"
	"github.com/pdiddy/paper-digest/internal/criteria"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show which topic each paper is filed under",
	Long: `Classify runs the loader and topic classifier without rendering and
prints one line per paper with the topic it lands in. Topic 0 is unknown.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output assignments as JSON")

	rootCmd.AddCommand(classifyCmd)
}

// assignment is one row of classify output.
type assignment struct {
	Position int    `json:"position"`
	Key      string `json:"key"`
	ArxivID  string `json:"arxiv_id"`
	Title    string `json:"title"`
	Topic    int    `json:"topic"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := digestConfig()
	if err != nil {
		return err
	}
	_, list, groups, err := loadAndGroup(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	rows := make([]assignment, len(list))
	for i, p := range list {
		rows[i] = assignment{
			Position: i,
			Key:      p.Key,
			ArxivID:  p.ArxivID,
			Title:    p.Title,
			Topic:    groups.TopicFor(i),
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatAssignments(cmd.OutOrStdout(), rows, jsonOutput)
}

func formatAssignments(w io.Writer, rows []assignment, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No papers.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-7s  %-12s  %s\n", "Pos", "Topic", "ArXiv", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range rows {
		topic := fmt.Sprint(r.Topic)
		if r.Topic == classify.Unknown {
			topic = "unknown"
		}
		fmt.Fprintf(w, "%-4d  %-7s  %-12s  %s\n", r.Position, topic, r.ArxivID, truncate(r.Title, 50))
	}
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "List the topic criteria that papers are grouped under",
	Long: `Criteria prints the numbered lines retained from the criteria file
with their bucket position and the id written in the line. Links in the
digest point at the written id while papers are filed by position, so a
mismatch is reported as a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := digestConfig()
		if err != nil {
			return err
		}
		crit, err := criteria.Load(cfg.CriteriaPath)
		if err != nil {
			return err
		}
		return formatCriteria(cmd.OutOrStdout(), cmd.ErrOrStderr(), crit)
	},
}

func init() {
	rootCmd.AddCommand(criteriaCmd)
}

func formatCriteria(w, log io.Writer, crit []types.Criterion) error {
	if len(crit) == 0 {
		fmt.Fprintln(w, "No criteria.")
		return nil
	}
	fmt.Fprintf(w, "%-8s  %-8s  %s\n", "Position", "Declared", "Criterion")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, c := range crit {
		fmt.Fprintf(w, "%-8d  %-8d  %s\n", c.Position, c.DeclaredID, truncate(c.Text, 60))
		if c.DeclaredID != c.Position {
			fmt.Fprintf(log, "warning: criterion at position %d declares id %d; its link will not reach its section\n",
				c.Position, c.DeclaredID)
		}
	}
	return nil
}
