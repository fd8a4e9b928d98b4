package ga

import "math/rand"

// Crossover combines two parents into one child. Implementations must return
// a fresh chromosome that aliases neither parent.
type Crossover interface {
	Name() string
	Combine(rng *rand.Rand, mother, father Chromosome) Chromosome
}

// ArithmeticCrossover blends each gene as a*mother + (1-a)*father with a
// fresh uniform weight per gene.
type ArithmeticCrossover struct{}

func (ArithmeticCrossover) Name() string {
	return "arithmetic"
}

func (ArithmeticCrossover) Combine(rng *rand.Rand, mother, father Chromosome) Chromosome {
	child := make(Chromosome, len(mother))
	for g := range child {
		a := rng.Float64()
		child[g] = a*mother[g] + (1-a)*father[g]
	}
	return child
}

// UniformCrossover copies each gene from either parent with equal
// probability.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (UniformCrossover) Combine(rng *rand.Rand, mother, father Chromosome) Chromosome {
	child := make(Chromosome, len(mother))
	for g := range child {
		if rng.Intn(2) == 0 {
			child[g] = mother[g]
		} else {
			child[g] = father[g]
		}
	}
	return child
}
