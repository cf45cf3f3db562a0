package corpus

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	log "github.com/golang/glog"
)

// ToponymLookup reports whether a word is a known place name. It is
// satisfied by gazetteer.Gazetteer.
type ToponymLookup interface {
	Contains(name string) bool
}

// Corpus holds the token stream as four index-aligned parallel arrays.
// Stopword tokens are kept in the stream (they occupy word ids in the
// full vocabulary) but are excluded from sampling and from counts.
type Corpus struct {
	Lexicon *Lexicon

	// parallel token arrays, all of length TokenCount()
	Words     []uint32
	Docs      []uint32
	Toponyms  []bool
	Stopwords []bool

	DocCount uint32

	stopVocab uint32 // distinct stopword types interned so far
}

func NewCorpus() *Corpus {
	return &Corpus{Lexicon: NewLexicon()}
}

func (this *Corpus) TokenCount() int {
	return len(this.Words)
}

// full vocabulary size fW, including stopwords
func (this *Corpus) FullVocabSize() uint32 {
	return this.Lexicon.Size()
}

// stopword vocabulary size sW
func (this *Corpus) StopVocabSize() uint32 {
	return this.stopVocab
}

// vocabulary size without stopwords, W = fW - sW; this is the
// Dirichlet normalizer dimension for the word-region distribution
func (this *Corpus) VocabSize() uint32 {
	return this.Lexicon.Size() - this.stopVocab
}

// AddToken appends one token occurrence to the stream, interning the
// word. Used by Load and by tests that build corpora directly.
func (this *Corpus) AddToken(word string, doc uint32, toponym, stopword bool) uint32 {
	before := this.Lexicon.Size()
	id := this.Lexicon.Add(word)
	if stopword && this.Lexicon.Size() > before {
		this.stopVocab += 1
	}
	this.Words = append(this.Words, id)
	this.Docs = append(this.Docs, doc)
	this.Toponyms = append(this.Toponyms, toponym)
	this.Stopwords = append(this.Stopwords, stopword)
	if doc+1 > this.DocCount {
		this.DocCount = doc + 1
	}
	return id
}

// load training data from file, one document per line. Tokens are
// lowercased and stripped of edge punctuation; a token is flagged as a
// toponym when the gazetteer contains it and as a stopword when the
// stopword list does
func (this *Corpus) Load(fn string, gaz ToponymLookup, stop *StopwordList) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	docId := this.DocCount
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := 0
		for _, raw := range strings.Fields(line) {
			word := stripPunc(strings.ToLower(raw))
			if word == "" {
				continue
			}
			stopword := stop != nil && stop.IsStopword(word)
			toponym := !stopword && gaz != nil && gaz.Contains(word)
			this.AddToken(word, docId, toponym, stopword)
			tokens += 1
		}
		if tokens == 0 {
			log.Infof("document %d is empty after token cleanup", docId)
		}
		docId += 1
		this.DocCount = docId
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	log.Infof("number of documents %d", this.DocCount)
	log.Infof("vocabulary size %d (%d stopword types, %d without stopwords)",
		this.FullVocabSize(), this.StopVocabSize(), this.VocabSize())
	return nil
}

// remove punctuation from first and last characters of a token
func stripPunc(word string) string {
	return strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
