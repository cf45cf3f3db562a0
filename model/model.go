package model

import (
	"fmt"
	"io"

	"github.com/utcompling/geotopics/corpus"
	"github.com/utcompling/geotopics/region"
	"github.com/utcompling/geotopics/sstable"
)

var constructors = make(map[string]ModelCtor)

// the common interface region samplers should follow
type Model interface {
	// draw initial region assignments from the admissibility
	// filters alone
	RandomInitialize() error
	// run collapsed gibbs sampling until the annealer schedule
	// is exhausted
	Train(annealer *Annealer) error
	// read access to the latent region assignment per token
	Assignments() []uint32
	// posterior point estimate of word-region mixture
	Phi() *sstable.Float64Matrix
	// posterior point estimate of document-region mixture
	Theta() *sstable.Float64Matrix
	// posterior-mean per-region mass accumulated across samples
	EstimatedRegionCounts() []float64
	// posterior-mean per-word-region mass accumulated across samples
	EstimatedWordByRegionCounts() *sstable.Float64Matrix
	// write the top words per region with the region centroid
	PrintRegionWords(w io.Writer, grid *region.Grid, topN int) error
	// serialize the count tables so a trained model can be reloaded
	// without rerunning sampling
	SaveState(prefix string) error
	// deserialize count tables written by SaveState
	LoadState(prefix string) error
}

// Config carries the model hyperparameters
type Config struct {
	Alpha float64 // document-region mixture hyperparameter
	Beta  float64 // word-region mixture hyperparameter
	Seed  int64   // seed of the run's single random source
}

// new region samplers should register themselves using this function
func Register(modelType string, m ModelCtor) {
	constructors[modelType] = m
}

type ModelCtor func(dat *corpus.Corpus, filters *region.Filters, cfg Config) (Model, error)

func GetModel(modelType string) (ModelCtor, error) {
	if _, ok := constructors[modelType]; !ok {
		return nil, fmt.Errorf("model %s not registered", modelType)
	}
	return constructors[modelType], nil
}
