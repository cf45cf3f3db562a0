package model

import (
	"fmt"
	"io"
	"sort"

	"github.com/utcompling/geotopics/region"
	"github.com/utcompling/geotopics/sstable"
)

// PrintRegionWords writes each region as its centroid, its total mass
// and its topN heaviest words in descending order. It prefers the
// posterior-mean estimates collected during sampling and falls back to
// the current counts when no samples were collected.
func (this *RegionModel) PrintRegionWords(w io.Writer, grid *region.Grid, topN int) error {
	regionMass := this.EstimatedRegionCounts()
	wordMass := this.EstimatedWordByRegionCounts()
	if regionMass == nil || wordMass == nil {
		regionMass = make([]float64, this.numRegions)
		wordMass = sstable.NewFloat64Matrix(this.data.FullVocabSize(), this.numRegions)
		for r := uint32(0); r < this.numRegions; r += 1 {
			regionMass[r] = float64(this.rc.Get(r, 0))
			for word := uint32(0); word < this.data.FullVocabSize(); word += 1 {
				wordMass.Set(word, r, float64(this.wt.Get(word, r)))
			}
		}
	}

	type weighted struct {
		word uint32
		mass float64
	}
	words := make([]weighted, 0, this.data.FullVocabSize())

	for r := uint32(0); r < this.numRegions; r += 1 {
		cent := grid.Region(r)
		fmt.Fprintf(w, "Region %05d (%.2f, %.2f) Nr %.1f:",
			r, cent.CentLat, cent.CentLon, regionMass[r])

		words = words[:0]
		for word := uint32(0); word < this.data.FullVocabSize(); word += 1 {
			if m := wordMass.Get(word, r); m > 0 {
				words = append(words, weighted{word, m})
			}
		}
		sort.Slice(words, func(i, j int) bool {
			if words[i].mass != words[j].mass {
				return words[i].mass > words[j].mass
			}
			return words[i].word < words[j].word
		})
		if topN < len(words) {
			words = words[:topN]
		}
		for _, ww := range words {
			fmt.Fprintf(w, " %s (%.1f)", this.data.Lexicon.Word(ww.word), ww.mass)
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}
