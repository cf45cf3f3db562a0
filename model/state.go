package model

import (
	"fmt"

	"github.com/utcompling/geotopics/sstable"
)

// file suffixes of the persisted count tables
const (
	regionCountSuffix  = ".rc"
	docRegionSuffix    = ".rdc"
	wordRegionSuffix   = ".wrc"
	wordEstimateSuffix = ".ewrc"
)

// SaveState serializes the three count tables under the given path
// prefix. The matrix headers carry the dimensions (R, D, fW), so a
// reload can validate its target model without extra metadata. When
// sampling collected at least one sample, the posterior-mean
// word-region mass is written alongside the counts; it is a report
// artifact, not part of the resumable state.
func (this *RegionModel) SaveState(prefix string) error {
	if err := sstable.Uint32Serialize(this.rc, prefix+regionCountSuffix); err != nil {
		return err
	}
	if err := sstable.Uint32Serialize(this.dt, prefix+docRegionSuffix); err != nil {
		return err
	}
	if err := sstable.Uint32Serialize(this.wt, prefix+wordRegionSuffix); err != nil {
		return err
	}
	if est := this.EstimatedWordByRegionCounts(); est != nil {
		if err := sstable.Float64Serialize(est, prefix+wordEstimateSuffix); err != nil {
			return err
		}
	}
	return nil
}

// LoadState restores count tables written by SaveState, rejecting
// tables whose dimensions do not match the model
func (this *RegionModel) LoadState(prefix string) error {
	rc, err := sstable.Uint32Deserialize(prefix + regionCountSuffix)
	if err != nil {
		return err
	}
	dt, err := sstable.Uint32Deserialize(prefix + docRegionSuffix)
	if err != nil {
		return err
	}
	wt, err := sstable.Uint32Deserialize(prefix + wordRegionSuffix)
	if err != nil {
		return err
	}

	if err := checkShape(rc, this.numRegions, 1, "region counts"); err != nil {
		return err
	}
	if err := checkShape(dt, this.data.DocCount, this.numRegions, "document-region counts"); err != nil {
		return err
	}
	if err := checkShape(wt, this.data.FullVocabSize(), this.numRegions, "word-region counts"); err != nil {
		return err
	}

	this.rc = rc
	this.dt = dt
	this.wt = wt
	return nil
}

func checkShape(m *sstable.Uint32Matrix, rows, cols uint32, what string) error {
	r, c := m.Shape()
	if r != rows || c != cols {
		return fmt.Errorf("model: %s shape %dx%d does not match model (%dx%d)",
			what, r, c, rows, cols)
	}
	return nil
}
