package model

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/utcompling/geotopics/sstable"
)

// temperatures within this distance of 1.0 snap exactly to 1.0
const temperatureEpsilon = 1e-6

// AnnealerConfig fixes the cooling schedule at construction
type AnnealerConfig struct {
	// temperature at which to start the annealing process
	InitialTemperature float64
	// stop changing temperature once this has been reached
	TargetTemperature float64
	// decrement at which to reduce the temperature
	TemperatureDecrement float64
	// inner iterations per temperature during burn-in
	BurnInIterations int
	// number of samples to collect after burn-in
	Samples int
	// inner iterations between samples
	Lag int
}

func (cfg AnnealerConfig) validate() error {
	if cfg.TargetTemperature <= 0 {
		return fmt.Errorf("annealer: target temperature %f must be positive",
			cfg.TargetTemperature)
	}
	if cfg.InitialTemperature < cfg.TargetTemperature {
		return fmt.Errorf("annealer: initial temperature %f below target %f",
			cfg.InitialTemperature, cfg.TargetTemperature)
	}
	if cfg.TemperatureDecrement <= 0 {
		return fmt.Errorf("annealer: temperature decrement %f must be positive",
			cfg.TemperatureDecrement)
	}
	if cfg.BurnInIterations <= 0 {
		return fmt.Errorf("annealer: burn-in iterations %d must be positive",
			cfg.BurnInIterations)
	}
	if cfg.Samples < 0 {
		return fmt.Errorf("annealer: samples %d must not be negative", cfg.Samples)
	}
	if cfg.Samples > 0 && cfg.Lag <= 0 {
		return fmt.Errorf("annealer: lag %d must be positive when sampling", cfg.Lag)
	}
	return nil
}

type annealState int

const (
	stateBurnIn annealState = iota
	stateSampling
	stateDone
)

// Annealer drives the simulated annealing schedule: it controls the
// temperature, counts burn-in and sampling iterations, and accumulates
// count snapshots during the sampling phase. One Annealer drives one
// training run.
type Annealer struct {
	cfg AnnealerConfig

	state       annealState
	temperature float64
	reciprocal  float64 // exponent applied to scores, 1/temperature
	inner       int
	outer       int
	innerMax    int
	outerMax    int

	sampleCount      int
	regionTotals     []float64
	wordRegionTotals *sstable.Float64Matrix
	scratch          []float64
}

func NewAnnealer(cfg AnnealerConfig) (*Annealer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	a := &Annealer{
		cfg:         cfg,
		temperature: cfg.InitialTemperature,
		reciprocal:  1 / cfg.InitialTemperature,
		innerMax:    cfg.BurnInIterations,
		outerMax: int(math.Round((cfg.InitialTemperature-cfg.TargetTemperature)/
			cfg.TemperatureDecrement)) + 1,
	}
	a.stabilizeTemperature()
	return a, nil
}

func (this *Annealer) Temperature() float64 {
	return this.temperature
}

// Sampling reports whether the annealer is in its sample-collection phase
func (this *Annealer) Sampling() bool {
	return this.state == stateSampling
}

// SampleCount reports the number of samples collected so far
func (this *Annealer) SampleCount() int {
	return this.sampleCount
}

// NextIter advances the schedule and reports whether another pass over
// the corpus should run. During burn-in it decrements the temperature
// every BurnInIterations passes; once the target temperature has had
// its full burn-in, it switches to the sampling phase for Samples*Lag
// passes, then reports false.
func (this *Annealer) NextIter() bool {
	switch this.state {
	case stateDone:
		return false
	case stateSampling:
		this.inner += 1
		if this.inner == this.innerMax {
			this.state = stateDone
			return false
		}
		return true
	}

	// burn-in
	if this.inner == this.innerMax {
		this.inner = 0
		this.outer += 1
		if this.outer == this.outerMax {
			return this.beginSampling()
		}
		this.temperature -= this.cfg.TemperatureDecrement
		this.reciprocal = 1 / this.temperature
		this.stabilizeTemperature()
		log.Infof("outer iteration %d (temperature %.2f)", this.outer, this.temperature)
	}
	this.inner += 1
	return true
}

func (this *Annealer) beginSampling() bool {
	log.Info("burn-in complete")
	if this.cfg.Samples == 0 {
		this.state = stateDone
		return false
	}
	log.Info("beginning sampling")
	this.state = stateSampling
	this.inner = 0
	this.innerMax = this.cfg.Samples * this.cfg.Lag
	this.temperature = this.cfg.TargetTemperature
	this.reciprocal = 1 / this.cfg.TargetTemperature
	this.stabilizeTemperature()
	return true
}

// the temperature changes in floating point decrements, so it may land
// near 1.0 without hitting it exactly; snap it when it does
func (this *Annealer) stabilizeTemperature() {
	if math.Abs(this.reciprocal-1) < temperatureEpsilon {
		this.reciprocal = 1
		this.temperature = 1
	}
}

// AnnealProbs raises every score to the power of the current inverse
// temperature, in place, and returns the total mass of the result. The
// caller uses the returned total as the normalizing constant when
// drawing; the scores themselves are left unnormalized.
func (this *Annealer) AnnealProbs(probs []float64) float64 {
	if this.reciprocal == 1 {
		return floats.Sum(probs)
	}
	total := 0.0
	for i, p := range probs {
		if p > 0 {
			probs[i] = math.Pow(p, this.reciprocal)
		}
		total += probs[i]
	}
	return total
}

// CollectSamples accumulates the current count tables into the running
// totals. It is called once per inner iteration but only has effect
// every Lag iterations of the sampling phase, up to Samples times.
func (this *Annealer) CollectSamples(regionCounts, wordByRegionCounts *sstable.Uint32Matrix) {
	if this.state != stateSampling ||
		this.sampleCount == this.cfg.Samples ||
		this.inner%this.cfg.Lag != 0 {
		return
	}

	if this.regionTotals == nil {
		r, _ := regionCounts.Shape()
		w, c := wordByRegionCounts.Shape()
		this.regionTotals = make([]float64, r)
		this.wordRegionTotals = sstable.NewFloat64Matrix(w, c)
	}

	this.accumulate(this.regionTotals, regionCounts)
	this.accumulate(this.wordRegionTotals.RawData(), wordByRegionCounts)

	this.sampleCount += 1
	log.Infof("collected sample %d of %d", this.sampleCount, this.cfg.Samples)
}

func (this *Annealer) accumulate(dst []float64, src *sstable.Uint32Matrix) {
	if cap(this.scratch) < len(dst) {
		this.scratch = make([]float64, len(dst))
	}
	scratch := this.scratch[:len(dst)]
	for i, v := range src.RawData() {
		scratch[i] = float64(v)
	}
	floats.Add(dst, scratch)
}

// EstimatedRegionCounts returns the posterior-mean per-region mass,
// the accumulated totals divided by the number of samples collected.
// It returns nil when no sample has been collected.
func (this *Annealer) EstimatedRegionCounts() []float64 {
	if this.sampleCount == 0 {
		return nil
	}
	out := make([]float64, len(this.regionTotals))
	copy(out, this.regionTotals)
	floats.Scale(1/float64(this.sampleCount), out)
	return out
}

// EstimatedWordByRegionCounts returns the posterior-mean per-word,
// per-region mass, or nil when no sample has been collected.
func (this *Annealer) EstimatedWordByRegionCounts() *sstable.Float64Matrix {
	if this.sampleCount == 0 {
		return nil
	}
	r, c := this.wordRegionTotals.Shape()
	out := sstable.NewFloat64Matrix(r, c)
	copy(out.RawData(), this.wordRegionTotals.RawData())
	floats.Scale(1/float64(this.sampleCount), out.RawData())
	return out
}
