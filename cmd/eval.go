package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/expert-answers/internal/eval"
)

var (
	evalGolden     string
	evalResultsDir string
	evalScores     string
)

var evalCmd = &cobra.Command{
	Use:   "eval [base-url]",
	Short: "Score a running answers API against the golden set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if len(args) == 1 {
			cfg.Eval.BaseURL = args[0]
		}
		if evalGolden != "" {
			cfg.Eval.GoldenSet = evalGolden
		}
		if evalResultsDir != "" {
			cfg.Eval.ResultsDir = evalResultsDir
		}
		if evalScores != "" {
			cfg.Eval.ScoresFile = evalScores
		}
		if err := cfg.Validate("eval"); err != nil {
			return err
		}

		gs, err := eval.LoadGoldenSet(cfg.Eval.GoldenSet)
		if err != nil {
			return err
		}

		opts := []eval.Option{}
		if cfg.Eval.TimeoutSecs > 0 {
			opts = append(opts, eval.WithTimeout(time.Duration(cfg.Eval.TimeoutSecs)*time.Second))
		}
		runner := eval.NewRunner(cfg.Eval.BaseURL, opts...)

		zap.L().Info("eval: starting",
			zap.String("base_url", cfg.Eval.BaseURL),
			zap.String("golden_set", cfg.Eval.GoldenSet),
			zap.Int("queries", len(gs.Queries)),
		)

		rep, err := runner.Run(ctx, gs)
		if err != nil {
			return err
		}

		path, err := eval.WriteReport(rep, cfg.Eval.ResultsDir, cfg.Eval.ScoresFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderTable(queryColumns, queryRows(rep)))
		fmt.Fprintln(out, renderTable([]column{left("Metric"), right("Value")}, summaryRows(rep.Summary)))
		fmt.Fprintf(out, "Results saved to %s\nScores saved to %s\n", path, cfg.Eval.ScoresFile)
		return nil
	},
}

var queryColumns = []column{
	left("Query"), left("Status"), left("Search"),
	right("Precision"), right("Recall"), right("Required"),
}

func queryRows(rep *eval.Report) [][]string {
	rows := make([][]string, 0, len(rep.Results))
	for _, r := range rep.Results {
		row := []string{r.QueryID, r.Status, r.SearchStatus, "-", "-", "-"}
		if r.Metrics != nil {
			row[3] = formatScore(r.Metrics.Precision)
			row[4] = formatScore(r.Metrics.Recall)
			row[5] = formatScore(r.Metrics.RequiredRecall)
		}
		rows = append(rows, row)
	}
	return rows
}

func summaryRows(s eval.Summary) [][]string {
	return [][]string{
		{"Total queries", strconv.Itoa(s.TotalQueries)},
		{"Successful", strconv.Itoa(s.SuccessfulQueries)},
		{"Failed", strconv.Itoa(s.FailedQueries)},
		{"Average precision", formatScore(s.AveragePrecision)},
		{"Average recall", formatScore(s.AverageRecall)},
		{"Average required recall", formatScore(s.AverageRequiredRecall)},
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func init() {
	evalCmd.Flags().StringVar(&evalGolden, "golden", "", "golden set file (default from config)")
	evalCmd.Flags().StringVar(&evalResultsDir, "results-dir", "", "directory for full reports (default from config)")
	evalCmd.Flags().StringVar(&evalScores, "scores", "", "latest summary file (default from config)")
	rootCmd.AddCommand(evalCmd)
}
