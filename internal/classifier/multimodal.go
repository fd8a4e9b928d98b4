package classifier

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"garules/internal/dataset"
	"garules/internal/distance"
	"garules/internal/ga"
	"garules/internal/model"
)

// MultimodalConfig holds the hyperparameters of the single-prototype
// classifier. Fields are plain assignments; changing them after Fit takes
// effect on the next Fit.
type MultimodalConfig struct {
	// NIterations is the number of GA generations per class. Zero selects
	// the default of 10.
	NIterations int
	// Chromosomes, EliteCount and PMutation configure the per-class GA; zero
	// values select the engine defaults.
	Chromosomes int
	EliteCount  int
	PMutation   float64
	// Workers bounds concurrent fitness evaluation inside one search.
	Workers int
	// DistanceFactory derives the distance measure from the full training
	// set at fit time. Nil selects distance.StoeanFactory.
	DistanceFactory distance.Factory
	// Seed makes the search reproducible when set.
	Seed *int64
}

// Multimodal assigns each point to the class whose evolved prototype is
// nearest under the range-normalized Manhattan distance.
type Multimodal struct {
	Config MultimodalConfig

	classes     []string
	measure     distance.Measure
	models      map[string]ga.Chromosome
	features    int
	history     map[string][]float64
	diagnostics []model.GenerationDiagnostics
}

func NewMultimodal(cfg MultimodalConfig) *Multimodal {
	return &Multimodal{Config: cfg}
}

// Fitted reports whether the classifier holds a trained model set.
func (m *Multimodal) Fitted() bool {
	return m.models != nil
}

// Classes returns the sorted class labels seen during Fit.
func (m *Multimodal) Classes() []string {
	return append([]string(nil), m.classes...)
}

// Prototype returns the fitted prototype for a class label.
func (m *Multimodal) Prototype(class string) ([]float64, bool) {
	c, ok := m.models[class]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), c...), true
}

// FitnessHistory returns the best fitness per generation for each class.
func (m *Multimodal) FitnessHistory() map[string][]float64 {
	out := make(map[string][]float64, len(m.history))
	for class, h := range m.history {
		out[class] = append([]float64(nil), h...)
	}
	return out
}

// Fit evolves one prototype per class. A successful call fully replaces any
// previously fitted state.
func (m *Multimodal) Fit(ctx context.Context, x mat.Matrix, y []string) error {
	if err := dataset.Validate(x, y); err != nil {
		return err
	}

	dense := denseCopy(x)
	table := dataset.Table{X: dense, Labels: y}
	classes := table.Classes()

	factory := m.Config.DistanceFactory
	if factory == nil {
		factory = distance.StoeanFactory
	}
	measure, err := factory(dense)
	if err != nil {
		return err
	}

	rng, _, _ := newRand(m.Config.Seed)
	search := m.searchConfig()

	models := make(map[string]ga.Chromosome, len(classes))
	history := make(map[string][]float64, len(classes))
	var diagnostics []model.GenerationDiagnostics
	for _, class := range classes {
		subset, err := classSubset(table, class)
		if err != nil {
			return err
		}
		prototype, stats, err := fitPrototype(ctx, subset, measure, rng, search)
		if err != nil {
			return err
		}
		models[class] = prototype
		best := make([]float64, len(stats))
		for i, s := range stats {
			best[i] = s.BestFitness
			diagnostics = append(diagnostics, model.GenerationDiagnostics{
				Class:       class,
				Generation:  s.Generation,
				BestFitness: s.BestFitness,
				MeanFitness: s.MeanFitness,
			})
		}
		history[class] = best
	}

	_, features := dense.Dims()
	m.classes = classes
	m.measure = measure
	m.models = models
	m.features = features
	m.history = history
	m.diagnostics = diagnostics
	return nil
}

// Diagnostics returns per-generation population statistics for every class
// search of the last Fit.
func (m *Multimodal) Diagnostics() []model.GenerationDiagnostics {
	return append([]model.GenerationDiagnostics(nil), m.diagnostics...)
}

// Predict labels each row of x with the class of the nearest prototype.
func (m *Multimodal) Predict(x mat.Matrix) ([]string, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	if err := checkPredictInput(x, m.features); err != nil {
		return nil, err
	}

	rows, _ := x.Dims()
	scores := make([][]float64, rows)
	for i := range scores {
		scores[i] = make([]float64, len(m.classes))
	}
	for c, class := range m.classes {
		distances, err := m.measure.Pairwise(x, m.models[class])
		if err != nil {
			return nil, err
		}
		for i, d := range distances {
			scores[i][c] = d
		}
	}
	return argminLabels(scores, m.classes), nil
}

func (m *Multimodal) searchConfig() searchConfig {
	iterations := m.Config.NIterations
	if iterations <= 0 {
		iterations = defaultIterations
	}
	return searchConfig{
		iterations:  iterations,
		chromosomes: m.Config.Chromosomes,
		eliteCount:  m.Config.EliteCount,
		pMutation:   m.Config.PMutation,
		workers:     m.Config.Workers,
	}
}
