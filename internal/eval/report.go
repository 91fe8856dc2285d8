package eval

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// WriteReport writes the full report to
// <resultsDir>/eval_results_<timestamp>.json and overwrites scoresFile with
// the summary. It returns the report path.
func WriteReport(rep *Report, resultsDir, scoresFile string) (string, error) {
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "eval: create results dir %s", resultsDir)
	}

	path := filepath.Join(resultsDir, "eval_results_"+rep.Timestamp+".json")
	if err := writeJSON(path, rep); err != nil {
		return "", err
	}

	if dir := filepath.Dir(scoresFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", eris.Wrapf(err, "eval: create scores dir %s", dir)
		}
	}
	if err := writeJSON(scoresFile, rep.Summary); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "eval: marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "eval: write %s", path)
	}
	return nil
}
