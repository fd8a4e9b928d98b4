package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord describes one completed training or benchmark run.
type RunRecord struct {
	VersionedRecord
	RunID        string   `json:"run_id"`
	CreatedAtUTC string   `json:"created_at_utc"`
	Dataset      string   `json:"dataset"`
	Variant      string   `json:"variant"`
	Seed         int64    `json:"seed"`
	Seeded       bool     `json:"seeded"`
	NIterations  int      `json:"n_iterations"`
	NModels      int      `json:"n_models,omitempty"`
	TrainRows    int      `json:"train_rows"`
	TestRows     int      `json:"test_rows"`
	Features     int      `json:"features"`
	Classes      []string `json:"classes"`
	Accuracy     float64  `json:"accuracy"`
}

// GenerationDiagnostics summarizes one generation of one per-class search.
type GenerationDiagnostics struct {
	Class       string  `json:"class"`
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
}
