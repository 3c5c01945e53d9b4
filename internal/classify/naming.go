package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/declutterlabs/declutterd/internal/catalog"
)

// NamingAnalysis describes the naming conventions found in an asset set.
// Pattern fields are percentages of assets exhibiting the pattern.
type NamingAnalysis struct {
	HasNumbers        float64 `json:"has_numbers"`
	HasUnderscores    float64 `json:"has_underscores"`
	HasHyphens        float64 `json:"has_hyphens"`
	HasSpaces         float64 `json:"has_spaces"`
	StartsWithCapital float64 `json:"starts_with_capital"`
	AllCaps           float64 `json:"all_caps"`
	CamelCase         float64 `json:"camel_case"`

	// CommonPrefixes and CommonSuffixes are the five most frequent first
	// and last tokens (split on underscore, hyphen, whitespace) across
	// multi-token names, most frequent first.
	CommonPrefixes []TokenCount `json:"common_prefixes"`
	CommonSuffixes []TokenCount `json:"common_suffixes"`

	// ConsistencyScore starts at 100 and loses 20 points per convention
	// group (separator style, case style) where more than one pattern is
	// present in over 10% of names.
	ConsistencyScore float64 `json:"consistency_score"`
}

// TokenCount is a name token with its occurrence count.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

var (
	digitRe    = regexp.MustCompile(`\d`)
	nonAlphaRe = regexp.MustCompile(`[^a-zA-Z]`)
	allCapsRe  = regexp.MustCompile(`^[A-Z]+$`)
	camelRe    = regexp.MustCompile(`^[a-z]+([A-Z][a-z]*)*$`)
	splitRe    = regexp.MustCompile(`[_\-\s]+`)
)

// AnalyzeNaming inspects asset names for convention patterns and common
// affix tokens.
func AnalyzeNaming(assets []catalog.Asset) NamingAnalysis {
	var a NamingAnalysis
	if len(assets) == 0 {
		a.ConsistencyScore = 100
		return a
	}

	var numbers, underscores, hyphens, spaces, capital, caps, camel int
	prefixes := map[string]int{}
	suffixes := map[string]int{}

	for _, asset := range assets {
		name := asset.Name
		if digitRe.MatchString(name) {
			numbers++
		}
		if strings.Contains(name, "_") {
			underscores++
		}
		if strings.Contains(name, "-") {
			hyphens++
		}
		if strings.ContainsAny(name, " \t") {
			spaces++
		}
		if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
			capital++
		}
		letters := nonAlphaRe.ReplaceAllString(name, "")
		if letters != "" && allCapsRe.MatchString(letters) {
			caps++
		}
		if camelRe.MatchString(letters) {
			camel++
		}

		parts := splitRe.Split(name, -1)
		if len(parts) > 1 {
			prefixes[parts[0]]++
			suffixes[parts[len(parts)-1]]++
		}
	}

	total := float64(len(assets))
	a.HasNumbers = float64(numbers) / total * 100
	a.HasUnderscores = float64(underscores) / total * 100
	a.HasHyphens = float64(hyphens) / total * 100
	a.HasSpaces = float64(spaces) / total * 100
	a.StartsWithCapital = float64(capital) / total * 100
	a.AllCaps = float64(caps) / total * 100
	a.CamelCase = float64(camel) / total * 100

	a.CommonPrefixes = topTokens(prefixes, 5)
	a.CommonSuffixes = topTokens(suffixes, 5)
	a.ConsistencyScore = consistencyScore(a)
	return a
}

// consistencyScore penalizes each convention group where two or more
// patterns are in active use (present in more than 10% of names).
func consistencyScore(a NamingAnalysis) float64 {
	groups := [][]float64{
		{a.HasUnderscores, a.HasHyphens, a.HasSpaces},
		{a.StartsWithCapital, a.AllCaps, a.CamelCase},
	}

	score := 100.0
	for _, group := range groups {
		active := 0
		for _, pct := range group {
			if pct > 10 {
				active++
			}
		}
		if active > 1 {
			score -= 20
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

func topTokens(counts map[string]int, n int) []TokenCount {
	out := make([]TokenCount, 0, len(counts))
	for tok, c := range counts {
		out = append(out, TokenCount{Token: tok, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RedundantWord is a word that repeats across most asset names.
type RedundantWord struct {
	Word      string  `json:"word"`
	Frequency int     `json:"frequency"`
	Percent   float64 `json:"percent"`
}

var wordStripRe = regexp.MustCompile(`[^a-z0-9\s]`)

// FindRedundantWords returns lowercase words (longer than two characters,
// punctuation stripped) appearing in at least max(2, ceil(0.7*n)) of the
// n assets, most frequent first.
func FindRedundantWords(assets []catalog.Asset) []RedundantWord {
	counts := map[string]int{}
	for _, asset := range assets {
		cleaned := wordStripRe.ReplaceAllString(strings.ToLower(asset.Name), " ")
		seen := map[string]bool{}
		for _, w := range strings.Fields(cleaned) {
			if len(w) <= 2 || seen[w] {
				continue
			}
			seen[w] = true
			counts[w]++
		}
	}

	threshold := (len(assets)*7 + 9) / 10 // ceil(0.7*n)
	if threshold < 2 {
		threshold = 2
	}

	var out []RedundantWord
	for w, c := range counts {
		if c >= threshold {
			out = append(out, RedundantWord{
				Word:      w,
				Frequency: c,
				Percent:   float64(c) / float64(len(assets)) * 100,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Word < out[j].Word
	})
	return out
}
