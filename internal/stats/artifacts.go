package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"garules/internal/model"
)

const runIndexFile = "run_index.json"

// RunArtifacts is everything written to the per-run benchmark directory.
type RunArtifacts struct {
	Record         model.RunRecord               `json:"record"`
	FitnessHistory map[string][]float64          `json:"fitness_history"`
	Diagnostics    []model.GenerationDiagnostics `json:"diagnostics,omitempty"`
	Report         Report                        `json:"report"`
}

type RunIndexEntry struct {
	RunID        string  `json:"run_id"`
	Dataset      string  `json:"dataset"`
	Variant      string  `json:"variant"`
	Seed         int64   `json:"seed"`
	NIterations  int     `json:"n_iterations"`
	NModels      int     `json:"n_models,omitempty"`
	Accuracy     float64 `json:"accuracy"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

// WriteRunArtifacts writes the run directory: the run record and report as
// JSON, the per-class fitness history as CSV, and a plain-text report.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Record.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Record.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "run_record.json"), artifacts.Record); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "report.json"), artifacts.Report); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "diagnostics.json"), artifacts.Diagnostics); err != nil {
		return "", err
	}
	if err := writeFitnessCSV(filepath.Join(runDir, "fitness_history.csv"), artifacts.FitnessHistory); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "report.txt"), []byte(artifacts.Report.Render()), 0o644); err != nil {
		return "", err
	}

	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), entries)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAtUTC > entries[j].CreatedAtUTC
	})
	return entries, nil
}

// ExportRunArtifacts copies a run directory into outDir.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	files := []string{"run_record.json", "report.json", "diagnostics.json", "fitness_history.csv", "report.txt"}
	for _, file := range files {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

// writeFitnessCSV writes one row per generation step: class, step index,
// best fitness.
func writeFitnessCSV(path string, history map[string][]float64) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	classes := make([]string, 0, len(history))
	for class := range history {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"class", "step", "best_fitness"}); err != nil {
		return err
	}
	for _, class := range classes {
		for step, fitness := range history[class] {
			record := []string{
				class,
				strconv.Itoa(step + 1),
				strconv.FormatFloat(fitness, 'g', -1, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
