package features

import (
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// minTermLength is the shortest term (in runes) kept by the text analyzer.
const minTermLength = 2

// textAnalyzer splits on unicode word boundaries, lowercases and removes
// English stop words. Bleve analyzers hold no per-call state.
var textAnalyzer = newTextAnalyzer()

func newTextAnalyzer() *analysis.DefaultAnalyzer {
	stopWords := analysis.NewTokenMap()
	if err := stopWords.LoadBytes(en.EnglishStopWords); err != nil {
		panic(err)
	}
	return &analysis.DefaultAnalyzer{
		Tokenizer: unicode.NewUnicodeTokenizer(),
		TokenFilters: []analysis.TokenFilter{
			lowercase.NewLowerCaseFilter(),
			stop.NewStopTokensFilter(stopWords),
		},
	}
}

// tokenize returns the analyzed terms of text in order of appearance,
// including repeats.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}
	stream := textAnalyzer.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, token := range stream {
		if utf8.RuneCount(token.Term) < minTermLength {
			continue
		}
		terms = append(terms, string(token.Term))
	}
	return terms
}
