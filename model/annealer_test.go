package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utcompling/geotopics/sstable"
)

func TestAnnealerConfigValidation(t *testing.T) {
	valid := AnnealerConfig{
		InitialTemperature:   2.0,
		TargetTemperature:    1.0,
		TemperatureDecrement: 0.5,
		BurnInIterations:     5,
		Samples:              2,
		Lag:                  3,
	}
	_, err := NewAnnealer(valid)
	assert.NoError(t, err)

	bad := valid
	bad.TargetTemperature = 0
	_, err = NewAnnealer(bad)
	assert.Error(t, err)

	bad = valid
	bad.InitialTemperature = 0.5
	_, err = NewAnnealer(bad)
	assert.Error(t, err)

	bad = valid
	bad.TemperatureDecrement = 0
	_, err = NewAnnealer(bad)
	assert.Error(t, err)

	bad = valid
	bad.BurnInIterations = 0
	_, err = NewAnnealer(bad)
	assert.Error(t, err)

	bad = valid
	bad.Samples = 1
	bad.Lag = 0
	_, err = NewAnnealer(bad)
	assert.Error(t, err)
}

// with 5 burn-in iterations at a single temperature and 3 samples at
// lag 2, training runs exactly 5 + 3*2 = 11 iterations, collecting on
// overall iterations 6, 8 and 10
func TestAnnealerSchedule(t *testing.T) {
	a, err := NewAnnealer(AnnealerConfig{
		InitialTemperature:   1.0,
		TargetTemperature:    1.0,
		TemperatureDecrement: 0.1,
		BurnInIterations:     5,
		Samples:              3,
		Lag:                  2,
	})
	assert.NoError(t, err)

	rc := sstable.NewUint32Matrix(2, 1)
	wt := sstable.NewUint32Matrix(3, 2)
	rc.Set(0, 0, 4)
	wt.Set(1, 0, 4)

	var collectedAt []int
	iter := 0
	for a.NextIter() {
		iter += 1
		before := a.SampleCount()
		a.CollectSamples(rc, wt)
		if a.SampleCount() > before {
			collectedAt = append(collectedAt, iter)
		}
	}

	assert.Equal(t, 11, iter)
	assert.False(t, a.NextIter())
	assert.Equal(t, []int{6, 8, 10}, collectedAt)
	assert.Equal(t, 3, a.SampleCount())

	// posterior means divide the accumulated counts by the samples
	assert.Equal(t, []float64{4, 0}, a.EstimatedRegionCounts())
	est := a.EstimatedWordByRegionCounts()
	assert.Equal(t, float64(4), est.Get(1, 0))
	assert.Equal(t, float64(0), est.Get(0, 0))
}

func TestAnnealerNoSamples(t *testing.T) {
	a, err := NewAnnealer(AnnealerConfig{
		InitialTemperature:   1.0,
		TargetTemperature:    1.0,
		TemperatureDecrement: 0.1,
		BurnInIterations:     4,
		Samples:              0,
		Lag:                  0,
	})
	assert.NoError(t, err)

	iter := 0
	for a.NextIter() {
		iter += 1
	}
	assert.Equal(t, 4, iter)
	assert.Equal(t, 0, a.SampleCount())
	assert.Nil(t, a.EstimatedRegionCounts())
	assert.Nil(t, a.EstimatedWordByRegionCounts())
}

func TestAnnealerCoolingSchedule(t *testing.T) {
	a, err := NewAnnealer(AnnealerConfig{
		InitialTemperature:   2.0,
		TargetTemperature:    1.0,
		TemperatureDecrement: 0.5,
		BurnInIterations:     2,
		Samples:              0,
	})
	assert.NoError(t, err)

	var temps []float64
	for a.NextIter() {
		temps = append(temps, a.Temperature())
	}

	// three temperature plateaus of two iterations each: 2.0, 1.5, 1.0
	assert.Equal(t, []float64{2.0, 2.0, 1.5, 1.5, 1.0, 1.0}, temps)
}

// cooling in 0.1 steps lands near but not exactly on 1.0; the annealer
// must snap it
func TestAnnealerStabilizesTemperature(t *testing.T) {
	a, err := NewAnnealer(AnnealerConfig{
		InitialTemperature:   1.2,
		TargetTemperature:    1.0,
		TemperatureDecrement: 0.1,
		BurnInIterations:     1,
		Samples:              0,
	})
	assert.NoError(t, err)

	var last float64
	for a.NextIter() {
		last = a.Temperature()
	}
	assert.Equal(t, 1.0, last)
}

func TestAnnealProbs(t *testing.T) {
	a, err := NewAnnealer(AnnealerConfig{
		InitialTemperature:   2.0,
		TargetTemperature:    1.0,
		TemperatureDecrement: 1.0,
		BurnInIterations:     1,
		Samples:              0,
	})
	assert.NoError(t, err)

	// temperature 2 raises scores to the 1/2 power
	probs := []float64{4, 0, 9}
	total := a.AnnealProbs(probs)
	assert.InDelta(t, 5.0, total, 1e-12)
	assert.InDelta(t, 2.0, probs[0], 1e-12)
	assert.Equal(t, 0.0, probs[1])
	assert.InDelta(t, 3.0, probs[2], 1e-12)

	// at temperature 1 the scores pass through untouched
	assert.True(t, a.NextIter()) // temperature 2.0
	assert.True(t, a.NextIter()) // decrement to 1.0
	assert.Equal(t, 1.0, a.Temperature())

	probs = []float64{0.5, 1.5}
	total = a.AnnealProbs(probs)
	assert.Equal(t, 2.0, total)
	assert.Equal(t, []float64{0.5, 1.5}, probs)
}

func TestAnnealProbsNonFinite(t *testing.T) {
	a, err := NewAnnealer(AnnealerConfig{
		InitialTemperature:   1.0,
		TargetTemperature:    1.0,
		TemperatureDecrement: 0.1,
		BurnInIterations:     1,
		Samples:              0,
	})
	assert.NoError(t, err)

	total := a.AnnealProbs([]float64{1, math.Inf(1)})
	assert.True(t, math.IsInf(total, 1))
}
