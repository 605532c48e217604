package infinitable

import (
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Query is a parsed fzf-style search query. Parse once, score every row.
//
//	foo     fuzzy subsequence
//	'foo    exact substring
//	^foo    prefix
//	foo$    suffix
//	!foo    negation, combinable with the forms above
//	a b     every term must match
//	a | b   either group may match
type Query struct {
	groups [][]queryTerm
}

type matchKind uint8

const (
	matchFuzzy matchKind = iota
	matchExact
	matchPrefix
	matchSuffix
)

type queryTerm struct {
	runes         []rune
	kind          matchKind
	negate        bool
	caseSensitive bool
}

type matchFunc func(caseSensitive, normalize, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (algo.Result, *[]int)

var matchers = [...]matchFunc{
	matchFuzzy:  algo.FuzzyMatchV2,
	matchExact:  algo.ExactMatchNaive,
	matchPrefix: algo.PrefixMatch,
	matchSuffix: algo.SuffixMatch,
}

func init() {
	algo.Init("default")
}

// ParseQuery splits raw into OR groups on " | " and each group into
// whitespace-separated terms. A blank query parses to the empty Query.
func ParseQuery(raw string) Query {
	var q Query
	for _, part := range strings.Split(strings.TrimSpace(raw), " | ") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		group := make([]queryTerm, 0, len(fields))
		for _, f := range fields {
			group = append(group, parseTerm(f))
		}
		q.groups = append(q.groups, group)
	}
	return q
}

func parseTerm(tok string) queryTerm {
	var t queryTerm
	if len(tok) > 1 && strings.HasPrefix(tok, "!") {
		t.negate = true
		tok = tok[1:]
	}
	switch {
	case len(tok) > 1 && tok[0] == '\'':
		t.kind, tok = matchExact, tok[1:]
	case len(tok) > 1 && tok[0] == '^':
		t.kind, tok = matchPrefix, tok[1:]
	case len(tok) > 1 && strings.HasSuffix(tok, "$"):
		t.kind, tok = matchSuffix, tok[:len(tok)-1]
	}
	// smart case: any upper-case rune makes the term case sensitive
	t.caseSensitive = strings.IndexFunc(tok, unicode.IsUpper) >= 0
	if !t.caseSensitive {
		tok = strings.ToLower(tok)
	}
	t.runes = []rune(tok)
	return t
}

// Empty reports whether the query has no terms.
func (q Query) Empty() bool {
	return len(q.groups) == 0
}

// Score matches text against the query. The best scoring OR group wins;
// inside a group the term scores add up and every term must match.
func (q Query) Score(text string, slab *util.Slab) (int, bool) {
	if q.Empty() {
		return 0, true
	}
	chars := util.ToChars([]byte(text))
	best, found := 0, false
	for _, group := range q.groups {
		total, ok := 0, true
		for i := range group {
			s, hit := group[i].score(&chars, slab)
			if !hit {
				ok = false
				break
			}
			total += s
		}
		if ok && (!found || total > best) {
			best, found = total, true
		}
	}
	return best, found
}

func (t *queryTerm) score(chars *util.Chars, slab *util.Slab) (int, bool) {
	res, _ := matchers[t.kind](t.caseSensitive, false, true, chars, t.runes, false, slab)
	hit := res.Start >= 0
	if t.negate {
		return 0, !hit
	}
	return res.Score, hit
}
