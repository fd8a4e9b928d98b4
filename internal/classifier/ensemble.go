package classifier

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"garules/internal/dataset"
	"garules/internal/distance"
	"garules/internal/ga"
	"garules/internal/model"
)

// EnsembleConfig holds the hyperparameters of the ensemble classifier.
type EnsembleConfig struct {
	// NIterations is the number of GA generations per resample. Zero selects
	// the default of 10.
	NIterations int
	// NModels is the number of bootstrap resamples, and thus prototypes, per
	// class. Zero selects the default of 3.
	NModels int
	// Chromosomes, EliteCount and PMutation configure each GA; zero values
	// select the engine defaults.
	Chromosomes int
	EliteCount  int
	PMutation   float64
	// Workers bounds concurrent fitness evaluation inside one search.
	Workers int
	// Seed makes resampling and search fully reproducible when set.
	Seed *int64
}

// Ensemble fits several prototypes per class, one per bootstrap resample, to
// approximate multimodal class distributions. Prediction sums the distances
// to every prototype of a class and picks the class with the lowest total.
type Ensemble struct {
	Config EnsembleConfig

	classes     []string
	measure     distance.Measure
	models      map[string][]ga.Chromosome
	features    int
	history     map[string][]float64
	diagnostics []model.GenerationDiagnostics
}

func NewEnsemble(cfg EnsembleConfig) *Ensemble {
	return &Ensemble{Config: cfg}
}

// Fitted reports whether the classifier holds a trained model set.
func (e *Ensemble) Fitted() bool {
	return e.models != nil
}

// Classes returns the sorted class labels seen during Fit.
func (e *Ensemble) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Prototypes returns the fitted prototypes for a class label in resample
// order.
func (e *Ensemble) Prototypes(class string) ([][]float64, bool) {
	models, ok := e.models[class]
	if !ok {
		return nil, false
	}
	out := make([][]float64, len(models))
	for i, m := range models {
		out[i] = append([]float64(nil), m...)
	}
	return out, true
}

// FitnessHistory returns, per class, the best fitness per generation of each
// resample search, concatenated in resample order.
func (e *Ensemble) FitnessHistory() map[string][]float64 {
	out := make(map[string][]float64, len(e.history))
	for class, h := range e.history {
		out[class] = append([]float64(nil), h...)
	}
	return out
}

// Fit draws NModels bootstrap resamples per class and evolves one prototype
// against each. All resamples share one sequentially consumed random source,
// so a fixed seed reproduces the whole fit. The scale vector is computed once
// from the full training set and shared by every search.
func (e *Ensemble) Fit(ctx context.Context, x mat.Matrix, y []string) error {
	if err := dataset.Validate(x, y); err != nil {
		return err
	}

	dense := denseCopy(x)
	table := dataset.Table{X: dense, Labels: y}
	classes := table.Classes()

	measure, err := distance.StoeanFactory(dense)
	if err != nil {
		return err
	}

	rng, _, _ := newRand(e.Config.Seed)
	search := e.searchConfig()
	nModels := e.Config.NModels
	if nModels <= 0 {
		nModels = defaultModels
	}

	models := make(map[string][]ga.Chromosome, len(classes))
	history := make(map[string][]float64, len(classes))
	var diagnostics []model.GenerationDiagnostics
	for _, class := range classes {
		subset, err := classSubset(table, class)
		if err != nil {
			return err
		}
		classModels := make([]ga.Chromosome, 0, nModels)
		var classHistory []float64
		step := 0
		for i := 0; i < nModels; i++ {
			sample := bootstrap(subset, rng)
			prototype, stats, err := fitPrototype(ctx, sample, measure, rng, search)
			if err != nil {
				return fmt.Errorf("fit class %q resample %d: %w", class, i, err)
			}
			classModels = append(classModels, prototype)
			for _, s := range stats {
				step++
				classHistory = append(classHistory, s.BestFitness)
				diagnostics = append(diagnostics, model.GenerationDiagnostics{
					Class:       class,
					Generation:  step,
					BestFitness: s.BestFitness,
					MeanFitness: s.MeanFitness,
				})
			}
		}
		models[class] = classModels
		history[class] = classHistory
	}

	_, features := dense.Dims()
	e.classes = classes
	e.measure = measure
	e.models = models
	e.features = features
	e.history = history
	e.diagnostics = diagnostics
	return nil
}

// Diagnostics returns per-generation population statistics for every
// resample search of the last Fit, in class and resample order.
func (e *Ensemble) Diagnostics() []model.GenerationDiagnostics {
	return append([]model.GenerationDiagnostics(nil), e.diagnostics...)
}

// Predict labels each row of x with the class whose prototypes have the
// lowest summed distance to the row.
func (e *Ensemble) Predict(x mat.Matrix) ([]string, error) {
	if !e.Fitted() {
		return nil, ErrNotFitted
	}
	if err := checkPredictInput(x, e.features); err != nil {
		return nil, err
	}

	rows, _ := x.Dims()
	scores := make([][]float64, rows)
	for i := range scores {
		scores[i] = make([]float64, len(e.classes))
	}
	for c, class := range e.classes {
		for _, model := range e.models[class] {
			distances, err := e.measure.Pairwise(x, model)
			if err != nil {
				return nil, err
			}
			for i, d := range distances {
				scores[i][c] += d
			}
		}
	}
	return argminLabels(scores, e.classes), nil
}

func (e *Ensemble) searchConfig() searchConfig {
	iterations := e.Config.NIterations
	if iterations <= 0 {
		iterations = defaultIterations
	}
	return searchConfig{
		iterations:  iterations,
		chromosomes: e.Config.Chromosomes,
		eliteCount:  e.Config.EliteCount,
		pMutation:   e.Config.PMutation,
		workers:     e.Config.Workers,
	}
}

// bootstrap samples rows with replacement, same size as the subset.
func bootstrap(subset *mat.Dense, rng *rand.Rand) *mat.Dense {
	rows, cols := subset.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		out.SetRow(i, mat.Row(nil, rng.Intn(rows), subset))
	}
	return out
}
