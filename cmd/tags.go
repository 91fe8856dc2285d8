package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/expert-answers/internal/model"
)

var tagsCmd = &cobra.Command{
	Use:   "tags [tag]",
	Short: "List catalog tags, or the questions filed under one tag",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("tags"); err != nil {
			return err
		}
		store := newCatalog(cfg)
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			tags, err := store.Tags(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTable([]column{left("Tag"), right("Questions")}, tagRows(tags)))
			return nil
		}

		questions, err := store.QuestionsByTag(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Fprintf(out, "No questions tagged %q\n", args[0])
			return nil
		}
		fmt.Fprintln(out, renderTable([]column{left("Time"), left("Question"), left("Link")}, questionRows(questions)))
		return nil
	},
}

func tagRows(tags []model.TagCount) [][]string {
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{t.Tag, strconv.Itoa(t.Count)})
	}
	return rows
}

func questionRows(questions []model.TaggedQuestion) [][]string {
	rows := make([][]string, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, []string{q.Timestamp, strings.TrimSpace(q.Question), q.URL})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
