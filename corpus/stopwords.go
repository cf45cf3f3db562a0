package corpus

import (
	"bufio"
	"os"
	"strings"
)

// a small built-in English stopword list, used when no stopword
// file is supplied
var defaultStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "could", "did", "do",
	"does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into",
	"is", "it", "its", "itself", "just", "me", "more", "most", "my",
	"myself", "no", "nor", "not", "now", "of", "off", "on", "once", "only",
	"or", "other", "our", "ours", "ourselves", "out", "over", "own", "s",
	"same", "she", "should", "so", "some", "such", "t", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "we", "were", "what", "when", "where",
	"which", "while", "who", "whom", "why", "will", "with", "you", "your",
	"yours", "yourself", "yourselves",
}

// StopwordList answers whether a word should be excluded from
// sampling and from counts
type StopwordList struct {
	stopwords map[string]struct{}
}

// NewStopwordList builds a list from the built-in English stopwords
func NewStopwordList() *StopwordList {
	s := &StopwordList{stopwords: make(map[string]struct{})}
	for _, w := range defaultStopwords {
		s.stopwords[w] = struct{}{}
	}
	return s
}

// LoadStopwordList reads a list from a file with one word per line
func LoadStopwordList(fn string) (*StopwordList, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := &StopwordList{stopwords: make(map[string]struct{})}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w != "" {
			s.stopwords[w] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (this *StopwordList) IsStopword(word string) bool {
	_, ok := this.stopwords[word]
	return ok
}

func (this *StopwordList) Size() int {
	return len(this.stopwords)
}
