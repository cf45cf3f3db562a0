package region

import (
	"fmt"

	log "github.com/golang/glog"

	"github.com/utcompling/geotopics/corpus"
	"github.com/utcompling/geotopics/gazetteer"
	"github.com/utcompling/geotopics/sstable"
)

// Filters holds the two admissibility masks consulted by the sampler,
// both laid out flat as [index*R + region] 0/1 matrices. They are built
// once per corpus and never mutated during sampling.
type Filters struct {
	// [w, r] is 1 when region r is a geographically valid candidate
	// for toponym word w; rows for non-toponym words are all zero
	RegionByToponym *sstable.Uint32Matrix
	// [d, r] is 1 when some toponym occurrence in document d admits
	// region r
	ActiveRegionByDocument *sstable.Uint32Matrix

	NumRegions uint32
}

// BuildFilters resolves every toponym occurrence against the gazetteer,
// materializes the hit regions in the grid, and constructs both masks.
//
// A toponym with no gazetteer entry gets an all-ones row: no geographic
// restriction. A document in which no toponym resolved to any region
// gets an all-ones active row, otherwise every one of its tokens would
// have zero admissible mass and training could never start.
func BuildFilters(c *corpus.Corpus, gaz *gazetteer.Gazetteer, grid *Grid) (*Filters, error) {
	wordRegions := make(map[uint32]map[uint32]struct{})
	unknownToponyms := make(map[uint32]struct{})

	for i := range c.Words {
		if c.Stopwords[i] || !c.Toponyms[i] {
			continue
		}
		w := c.Words[i]
		if _, seen := wordRegions[w]; seen {
			continue
		}
		if _, unknown := unknownToponyms[w]; unknown {
			continue
		}
		name := c.Lexicon.Word(w)
		locs := gaz.Lookup(name)
		if len(locs) == 0 {
			unknownToponyms[w] = struct{}{}
			continue
		}
		regions := make(map[uint32]struct{}, len(locs))
		for _, loc := range locs {
			regions[grid.AddLocation(loc)] = struct{}{}
		}
		wordRegions[w] = regions
	}

	numRegions := grid.RegionCount()
	if numRegions == 0 {
		return nil, fmt.Errorf("region: no toponym in the corpus resolved to any location; cannot build filters")
	}
	log.Infof("region: %d active regions, %d resolved toponym types, %d unresolved",
		numRegions, len(wordRegions), len(unknownToponyms))

	f := &Filters{
		RegionByToponym:        sstable.NewUint32Matrix(c.FullVocabSize(), numRegions),
		ActiveRegionByDocument: sstable.NewUint32Matrix(c.DocCount, numRegions),
		NumRegions:             numRegions,
	}

	for w, regions := range wordRegions {
		for r := range regions {
			f.RegionByToponym.Set(w, r, 1)
		}
	}
	for w := range unknownToponyms {
		for r := uint32(0); r < numRegions; r += 1 {
			f.RegionByToponym.Set(w, r, 1)
		}
	}

	// a document activates every region admitted by any of its
	// resolved toponyms
	for i := range c.Words {
		if c.Stopwords[i] || !c.Toponyms[i] {
			continue
		}
		if regions, ok := wordRegions[c.Words[i]]; ok {
			d := c.Docs[i]
			for r := range regions {
				f.ActiveRegionByDocument.Set(d, r, 1)
			}
		}
	}

	// documents with no resolved toponym are unconstrained
	for d := uint32(0); d < c.DocCount; d += 1 {
		if sstable.Uint32VectorSum(f.ActiveRegionByDocument.GetRow(d)) == 0 {
			for r := uint32(0); r < numRegions; r += 1 {
				f.ActiveRegionByDocument.Set(d, r, 1)
			}
		}
	}

	return f, nil
}
