package model

import (
	"fmt"
	"math"
	"math/rand"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/utcompling/geotopics/corpus"
	"github.com/utcompling/geotopics/region"
	"github.com/utcompling/geotopics/sstable"
)

func init() {
	Register("region", NewRegionModel)
}

// RegionModel assigns every non-stopword token a latent geographic
// region with a collapsed gibbs sampler. Toponym tokens are restricted
// to the regions their gazetteer candidates fall in; all tokens are
// restricted to the regions active in their document.
type RegionModel struct {
	data    *corpus.Corpus
	filters *region.Filters

	alpha float64 // document-region mixture hyperparameter
	beta  float64 // word-region mixture hyperparameter
	betaW float64 // beta * W, the word-region Dirichlet normalizer

	numRegions uint32

	// latent region assignment per token; undefined for stopwords
	regions []uint32

	rc *sstable.Uint32Matrix // region count table, R x 1
	dt *sstable.Uint32Matrix // document-region count table, D x R
	wt *sstable.Uint32Matrix // word-region count table, fW x R

	rng      *rand.Rand
	annealer *Annealer
}

// NewRegionModel creates a RegionModel instance with a collapsed gibbs
// sampler. It validates the corpus dimensions, the filter shapes and
// the hyperparameters before any allocation, so misconfigured runs fail
// before sampling starts.
func NewRegionModel(dat *corpus.Corpus, filters *region.Filters, cfg Config) (Model, error) {
	if dat == nil || dat.TokenCount() == 0 {
		return nil, fmt.Errorf("model: empty corpus")
	}
	if dat.DocCount == 0 || dat.FullVocabSize() == 0 || dat.VocabSize() == 0 {
		return nil, fmt.Errorf("model: corpus dimensions not known yet (D=%d, fW=%d, W=%d)",
			dat.DocCount, dat.FullVocabSize(), dat.VocabSize())
	}
	if filters == nil || filters.NumRegions == 0 {
		return nil, fmt.Errorf("model: region count not known yet")
	}
	if cfg.Alpha <= 0 || cfg.Beta <= 0 {
		return nil, fmt.Errorf("model: hyperparameters must be positive (alpha=%f, beta=%f)",
			cfg.Alpha, cfg.Beta)
	}
	if r, c := filters.RegionByToponym.Shape(); r != dat.FullVocabSize() || c != filters.NumRegions {
		return nil, fmt.Errorf("model: toponym filter shape %dx%d does not match corpus (%dx%d)",
			r, c, dat.FullVocabSize(), filters.NumRegions)
	}
	if r, c := filters.ActiveRegionByDocument.Shape(); r != dat.DocCount || c != filters.NumRegions {
		return nil, fmt.Errorf("model: document filter shape %dx%d does not match corpus (%dx%d)",
			r, c, dat.DocCount, filters.NumRegions)
	}

	return &RegionModel{
		data:       dat,
		filters:    filters,
		alpha:      cfg.Alpha,
		beta:       cfg.Beta,
		betaW:      cfg.Beta * float64(dat.VocabSize()),
		numRegions: filters.NumRegions,
		regions:    make([]uint32, dat.TokenCount()),
		rc:         sstable.NewUint32Matrix(filters.NumRegions, uint32(1)),
		dt:         sstable.NewUint32Matrix(dat.DocCount, filters.NumRegions),
		wt:         sstable.NewUint32Matrix(dat.FullVocabSize(), filters.NumRegions),
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// RandomInitialize draws an initial region for every non-stopword
// token from the admissibility filters alone; the counts are still
// empty so there is no likelihood term yet
func (this *RegionModel) RandomInitialize() error {
	probs := make([]float64, this.numRegions)

	for i := 0; i < this.data.TokenCount(); i += 1 {
		if this.data.Stopwords[i] {
			continue
		}
		w := this.data.Words[i]
		d := this.data.Docs[i]
		toponym := this.data.Toponyms[i]

		for r := uint32(0); r < this.numRegions; r += 1 {
			score := float64(this.filters.ActiveRegionByDocument.Get(d, r))
			if toponym {
				score *= float64(this.filters.RegionByToponym.Get(w, r))
			}
			probs[r] = score
		}

		total := floats.Sum(probs)
		if total == 0 {
			return fmt.Errorf("model: filter inconsistency: token %d (word %q, document %d) has no admissible region",
				i, this.data.Lexicon.Word(w), d)
		}

		rid := drawRegion(probs, this.rng.Float64()*total)
		this.regions[i] = rid
		this.rc.Incr(rid, 0, 1)
		this.dt.Incr(d, rid, 1)
		this.wt.Incr(w, rid, 1)
	}
	return nil
}

// Train runs the collapsed gibbs sampler until the annealer schedule
// is exhausted. Every inner iteration resamples all non-stopword
// tokens in token-index order; each token update retracts the token
// from the counts, scores the admissible regions against the
// leave-one-out posterior, anneals, draws, and commits.
func (this *RegionModel) Train(annealer *Annealer) error {
	if annealer == nil {
		return fmt.Errorf("model: nil annealer")
	}
	this.annealer = annealer

	probs := make([]float64, this.numRegions)
	iter := 0

	for annealer.NextIter() {
		for i := 0; i < this.data.TokenCount(); i += 1 {
			if this.data.Stopwords[i] {
				continue
			}
			if err := this.resample(i, probs, annealer); err != nil {
				return err
			}
		}
		annealer.CollectSamples(this.rc, this.wt)

		if iter%10 == 0 {
			log.Infof("iter %5d (temperature %.2f), likelihood %f",
				iter, annealer.Temperature(), this.Likelihood())
		}
		iter += 1
	}
	return nil
}

// resample performs the retract-score-anneal-draw-commit update for
// one token. It must run to completion before any other token is
// touched: the scores depend on the counts with this token removed.
func (this *RegionModel) resample(i int, probs []float64, annealer *Annealer) error {
	w := this.data.Words[i]
	d := this.data.Docs[i]
	toponym := this.data.Toponyms[i]
	old := this.regions[i]

	this.rc.Decr(old, 0, 1)
	this.dt.Decr(d, old, 1)
	this.wt.Decr(w, old, 1)

	for r := uint32(0); r < this.numRegions; r += 1 {
		mask := float64(this.filters.ActiveRegionByDocument.Get(d, r))
		if toponym {
			mask *= float64(this.filters.RegionByToponym.Get(w, r))
		}
		probs[r] = (float64(this.wt.Get(w, r)) + this.beta) /
			(float64(this.rc.Get(r, 0)) + this.betaW) *
			(float64(this.dt.Get(d, r)) + this.alpha) *
			mask
	}

	total := annealer.AnnealProbs(probs)
	if total == 0 {
		return fmt.Errorf("model: filter inconsistency: token %d (word %q, document %d) has no admissible region",
			i, this.data.Lexicon.Word(w), d)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return fmt.Errorf("model: non-finite score mass %f at token %d (word %q); check hyperparameters",
			total, i, this.data.Lexicon.Word(w))
	}

	rid := drawRegion(probs, this.rng.Float64()*total)
	this.regions[i] = rid
	this.rc.Incr(rid, 0, 1)
	this.dt.Incr(d, rid, 1)
	this.wt.Incr(w, rid, 1)
	return nil
}

// drawRegion picks the smallest region whose cumulative score exceeds
// the draw. Regions with zero mass are never chosen; if floating point
// rounding leaves the draw above the final cumulative sum, the last
// region with positive mass is returned.
func drawRegion(probs []float64, u float64) uint32 {
	cumsum := 0.0
	last := 0
	for r := 0; r < len(probs); r += 1 {
		if probs[r] <= 0 {
			continue
		}
		cumsum += probs[r]
		last = r
		if u < cumsum {
			return uint32(r)
		}
	}
	return uint32(last)
}

// Assignments exposes the latent region assignment per token. Entries
// for stopword tokens are meaningless.
func (this *RegionModel) Assignments() []uint32 {
	return this.regions
}

// compute the posterior point estimation of word-region mixture from
// the current counts. beta (Dirichlet prior) + data -> phi
func (this *RegionModel) Phi() *sstable.Float64Matrix {
	phi := sstable.NewFloat64Matrix(this.data.FullVocabSize(), this.numRegions)

	for r := uint32(0); r < this.numRegions; r += 1 {
		denom := float64(this.rc.Get(r, 0)) + this.betaW
		for w := uint32(0); w < this.data.FullVocabSize(); w += 1 {
			phi.Set(w, r, (float64(this.wt.Get(w, r))+this.beta)/denom)
		}
	}
	return phi
}

// compute the posterior point estimation of document-region mixture
// from the current counts. alpha (Dirichlet prior) + data -> theta
func (this *RegionModel) Theta() *sstable.Float64Matrix {
	theta := sstable.NewFloat64Matrix(this.data.DocCount, this.numRegions)

	for d := uint32(0); d < this.data.DocCount; d += 1 {
		sum := sstable.Uint32VectorSum(this.dt.GetRow(d))
		denom := float64(sum) + float64(this.numRegions)*this.alpha
		for r := uint32(0); r < this.numRegions; r += 1 {
			theta.Set(d, r, (float64(this.dt.Get(d, r))+this.alpha)/denom)
		}
	}
	return theta
}

// compute the joint likelihood of the non-stopword corpus
func (this *RegionModel) Likelihood() float64 {
	phi := this.Phi()
	theta := this.Theta()

	sum := 0.0
	for i := 0; i < this.data.TokenCount(); i += 1 {
		if this.data.Stopwords[i] {
			continue
		}
		w := this.data.Words[i]
		d := this.data.Docs[i]
		sum += math.Log(floats.Dot(phi.RawRow(w), theta.RawRow(d)))
	}
	return sum
}

// EstimatedRegionCounts returns the posterior-mean per-region mass
// from the samples the annealer collected, or nil before sampling
func (this *RegionModel) EstimatedRegionCounts() []float64 {
	if this.annealer == nil {
		return nil
	}
	return this.annealer.EstimatedRegionCounts()
}

// EstimatedWordByRegionCounts returns the posterior-mean word-region
// mass from the samples the annealer collected, or nil before sampling
func (this *RegionModel) EstimatedWordByRegionCounts() *sstable.Float64Matrix {
	if this.annealer == nil {
		return nil
	}
	return this.annealer.EstimatedWordByRegionCounts()
}
