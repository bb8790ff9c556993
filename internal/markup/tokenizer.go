package markup

import (
	"cmp"
	"slices"
)

// Options selects which entity kinds the tokenizer recognizes. A disabled
// kind is left as plain text.
type Options struct {
	Hashtags bool `mapstructure:"hashtags"`
	Mentions bool `mapstructure:"mentions"`
	URLPills bool `mapstructure:"url_pills"`
	Emoji    bool `mapstructure:"emoji"`
}

// DefaultOptions enables every entity kind.
func DefaultOptions() Options {
	return Options{
		Hashtags: true,
		Mentions: true,
		URLPills: true,
		Emoji:    true,
	}
}

func (o Options) enabled(kind Kind) bool {
	switch kind {
	case KindHashtag:
		return o.Hashtags
	case KindMention:
		return o.Mentions
	case KindURLPill:
		return o.URLPills
	case KindEmoji:
		return o.Emoji
	}
	return false
}

// Tokenizer splits raw text into an ordered, contiguous token sequence.
// A Tokenizer holds no mutable state and is safe for concurrent use.
type Tokenizer struct {
	patterns []pattern
}

// NewTokenizer creates a tokenizer recognizing the kinds enabled in opts.
func NewTokenizer(opts Options) *Tokenizer {
	t := &Tokenizer{}
	for _, p := range registry {
		if opts.enabled(p.kind) {
			t.patterns = append(t.patterns, p)
		}
	}
	return t
}

var defaultTokenizer = NewTokenizer(DefaultOptions())

// Tokenize splits text using every entity kind.
func Tokenize(text string) []Token {
	return defaultTokenizer.Tokenize(text)
}

// candidate is a pattern match that may become a token.
type candidate struct {
	start    int
	end      int
	priority int
	value    Entity
}

// Tokenize returns the tokens of text. The result is ordered by Start,
// non-overlapping, and covers the whole input; empty input yields nil.
func (t *Tokenizer) Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	kept := scheduleByEarliestStart(t.candidates(text))
	return fillGaps(text, kept)
}

// candidates collects every match of every enabled pattern, each pattern
// scanned on its own. Matches rejected by their extractor are dropped.
func (t *Tokenizer) candidates(text string) []candidate {
	var out []candidate
	for _, p := range t.patterns {
		priority := Priority(p.kind)
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			value, ok := p.extract(text, loc)
			if !ok {
				continue
			}
			out = append(out, candidate{
				start:    loc[0],
				end:      loc[1],
				priority: priority,
				value:    value,
			})
		}
	}
	return out
}

// scheduleByEarliestStart orders candidates by start offset, breaking ties
// by pattern priority, then keeps each candidate that starts at or after
// the end of the last kept one.
func scheduleByEarliestStart(cands []candidate) []candidate {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(a.priority, b.priority)
	})

	kept := cands[:0]
	lastEnd := 0
	for _, c := range cands {
		if c.start >= lastEnd {
			kept = append(kept, c)
			lastEnd = c.end
		}
	}
	return kept
}

// fillGaps interleaves PlainText tokens for the ranges not covered by kept.
func fillGaps(text string, kept []candidate) []Token {
	tokens := make([]Token, 0, 2*len(kept)+1)
	pos := 0
	for _, c := range kept {
		if c.start > pos {
			tokens = append(tokens, Token{Start: pos, End: c.start, Value: PlainText{Text: text[pos:c.start]}})
		}
		tokens = append(tokens, Token{Start: c.start, End: c.end, Value: c.value})
		pos = c.end
	}
	if pos < len(text) {
		tokens = append(tokens, Token{Start: pos, End: len(text), Value: PlainText{Text: text[pos:]}})
	}
	return tokens
}
