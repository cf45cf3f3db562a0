package corpus

// Lexicon maps word strings to dense integer ids and back. Ids are
// assigned in first-occurrence order starting from zero, so the lexicon
// size always equals the full vocabulary size fW.
type Lexicon struct {
	wordToId map[string]uint32
	idToWord []string
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		wordToId: make(map[string]uint32),
	}
}

// intern the word and return its id
func (this *Lexicon) Add(word string) uint32 {
	if id, ok := this.wordToId[word]; ok {
		return id
	}
	id := uint32(len(this.idToWord))
	this.wordToId[word] = id
	this.idToWord = append(this.idToWord, word)
	return id
}

// look up the id of a word; the second value reports whether
// the word has been interned
func (this *Lexicon) Id(word string) (uint32, bool) {
	id, ok := this.wordToId[word]
	return id, ok
}

// look up the word string of an id
func (this *Lexicon) Word(id uint32) string {
	if id >= uint32(len(this.idToWord)) {
		return ""
	}
	return this.idToWord[id]
}

// full vocabulary size, including stopwords
func (this *Lexicon) Size() uint32 {
	return uint32(len(this.idToWord))
}
