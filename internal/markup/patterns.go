package markup

import "regexp"

// Scanning patterns. Each is matched against a whole document.
var (
	urlPillPattern = regexp.MustCompile(`!\[([^|\]]+)(\|([^\]]+))?\]\(([^)]+)\)`)
	mentionPattern = regexp.MustCompile(`@\[([^|]+)\|([^|]+)(\|([^|\]]+))?\]`)
	hashtagPattern = regexp.MustCompile(`#([A-Za-z0-9_-]+)`)
	emojiPattern   = regexp.MustCompile(`:([A-Za-z][A-Za-z0-9_]{0,31}):`)
)

// extractor builds an entity from a match. loc is the submatch index slice
// returned by FindAllStringSubmatchIndex. A false result excludes the match.
type extractor func(text string, loc []int) (Entity, bool)

// pattern is one rule of the registry.
type pattern struct {
	kind    Kind
	re      *regexp.Regexp
	extract extractor
}

// registry lists the scanning rules in priority order, highest first. When
// two candidates start at the same offset the earlier rule wins.
var registry = []pattern{
	{kind: KindURLPill, re: urlPillPattern, extract: extractURLPill},
	{kind: KindMention, re: mentionPattern, extract: extractMention},
	{kind: KindHashtag, re: hashtagPattern, extract: extractHashtag},
	{kind: KindEmoji, re: emojiPattern, extract: extractEmoji},
}

// Priority returns the rank of kind in the registry (0 is highest), or -1
// for kinds that are never scanned.
func Priority(kind Kind) int {
	for i, p := range registry {
		if p.kind == kind {
			return i
		}
	}
	return -1
}

// group returns capture group n, or "" if it did not participate.
func group(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}

func extractURLPill(text string, loc []int) (Entity, bool) {
	p := URLPill{
		Behavior: Behavior(group(text, loc, 1)),
		Width:    Width(group(text, loc, 3)),
		URL:      group(text, loc, 4),
	}
	if p.Width == "" {
		p.Width = DefaultWidth
	}
	if p.URL == "" || !p.Behavior.Valid() || !p.Width.Valid() {
		return nil, false
	}
	return p, true
}

func extractMention(text string, loc []int) (Entity, bool) {
	m := Mention{
		DisplayName: group(text, loc, 1),
		UserID:      group(text, loc, 2),
		FilterType:  FilterType(group(text, loc, 4)),
	}
	if m.FilterType == "" {
		m.FilterType = FilterAuthor
	}
	if m.DisplayName == "" || m.UserID == "" || !m.FilterType.Valid() {
		return nil, false
	}
	return m, true
}

func extractHashtag(text string, loc []int) (Entity, bool) {
	tag := group(text, loc, 1)
	if tag == "" {
		return nil, false
	}
	return Hashtag{Tag: tag}, true
}

func extractEmoji(text string, loc []int) (Entity, bool) {
	name := group(text, loc, 1)
	if name == "" {
		return nil, false
	}
	return Emoji{EmojiID: name, Name: name}, true
}
