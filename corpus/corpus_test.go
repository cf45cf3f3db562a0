package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGazetteer map[string]bool

func (g fakeGazetteer) Contains(name string) bool {
	return g[name]
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "input")
	assert.NoError(t, os.WriteFile(fn, []byte(content), 0644))
	return fn
}

func TestCorpusLoad(t *testing.T) {
	fn := writeTempFile(t,
		"The mayor of Austin spoke.\n"+
			"Austin and Dallas grew.\n")
	gaz := fakeGazetteer{"austin": true, "dallas": true}

	c := NewCorpus()
	assert.NoError(t, c.Load(fn, gaz, NewStopwordList()))

	assert.Equal(t, uint32(2), c.DocCount)
	assert.Equal(t, 9, c.TokenCount())

	// tokens are lowercased and stripped of edge punctuation
	spoke, ok := c.Lexicon.Id("spoke")
	assert.True(t, ok)
	assert.Equal(t, "spoke", c.Lexicon.Word(spoke))

	// both occurrences of austin intern to the same id
	austin, ok := c.Lexicon.Id("austin")
	assert.True(t, ok)
	occurrences := 0
	for i := range c.Words {
		if c.Words[i] == austin {
			occurrences += 1
			assert.True(t, c.Toponyms[i])
			assert.False(t, c.Stopwords[i])
		}
	}
	assert.Equal(t, 2, occurrences)

	// "the", "of", "and" are stopwords, never toponyms
	the, ok := c.Lexicon.Id("the")
	assert.True(t, ok)
	for i := range c.Words {
		if c.Words[i] == the {
			assert.True(t, c.Stopwords[i])
			assert.False(t, c.Toponyms[i])
		}
	}

	// doc ids align with input lines
	assert.Equal(t, uint32(0), c.Docs[0])
	assert.Equal(t, uint32(1), c.Docs[c.TokenCount()-1])
}

func TestCorpusVocabSizes(t *testing.T) {
	fn := writeTempFile(t, "the city of austin\n")
	gaz := fakeGazetteer{"austin": true}

	c := NewCorpus()
	assert.NoError(t, c.Load(fn, gaz, NewStopwordList()))

	// fW = {the, city, of, austin}, sW = {the, of}
	assert.Equal(t, uint32(4), c.FullVocabSize())
	assert.Equal(t, uint32(2), c.StopVocabSize())
	assert.Equal(t, uint32(2), c.VocabSize())
}

func TestCorpusSkipsBlankLinesAndEmptyTokens(t *testing.T) {
	fn := writeTempFile(t, "austin ... !\n\nparis\n")
	gaz := fakeGazetteer{"austin": true, "paris": true}

	c := NewCorpus()
	assert.NoError(t, c.Load(fn, gaz, NewStopwordList()))

	// punctuation-only tokens vanish; the blank line is no document
	assert.Equal(t, uint32(2), c.DocCount)
	assert.Equal(t, 2, c.TokenCount())
}

func TestLexicon(t *testing.T) {
	lex := NewLexicon()

	a := lex.Add("austin")
	b := lex.Add("boston")
	assert.Equal(t, a, lex.Add("austin"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, uint32(2), lex.Size())

	id, ok := lex.Id("boston")
	assert.True(t, ok)
	assert.Equal(t, b, id)

	_, ok = lex.Id("unseen")
	assert.False(t, ok)
	assert.Equal(t, "", lex.Word(99))
}

func TestStopwordList(t *testing.T) {
	s := NewStopwordList()
	assert.True(t, s.IsStopword("the"))
	assert.False(t, s.IsStopword("austin"))

	fn := writeTempFile(t, "foo\nbar\n")
	loaded, err := LoadStopwordList(fn)
	assert.NoError(t, err)
	assert.Equal(t, 2, loaded.Size())
	assert.True(t, loaded.IsStopword("foo"))
	assert.False(t, loaded.IsStopword("the"))
}
