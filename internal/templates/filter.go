package templates

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/declutterlabs/declutterd/internal/catalog"
)

// Filter matching is a logical OR across a folder definition's filters:
// an asset matching any one filter is included. A definition with no
// filters matches nothing.

// sizeEpsilon is the tolerance for size equality comparisons.
const sizeEpsilon = 1024

// durationEpsilon is the tolerance for duration equality comparisons.
const durationEpsilon = 1.0

var sizeRe = regexp.MustCompile(`^([\d.]+)\s*([A-Za-z]+)$`)

var sizeUnits = map[string]float64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// MatchAssets returns the assets matching any of the given filters,
// preserving input order.
func MatchAssets(assets []catalog.Asset, filters []Filter) []catalog.Asset {
	var out []catalog.Asset
	for _, a := range assets {
		if MatchesAny(a, filters) {
			out = append(out, a)
		}
	}
	return out
}

// MatchesAny reports whether the asset matches at least one filter.
func MatchesAny(a catalog.Asset, filters []Filter) bool {
	for _, f := range filters {
		if f.Matches(a) {
			return true
		}
	}
	return false
}

// Matches evaluates one filter against one asset. Unknown filter types
// and operators never match.
func (f Filter) Matches(a catalog.Asset) bool {
	switch f.Type {
	case FilterName:
		return strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.Value))
	case FilterAssetType:
		return string(a.Type) == f.Value
	case FilterSize:
		return compareSize(a.Size, f.Operator, f.Value)
	case FilterDuration:
		return compareDuration(a.Duration, f.Operator, f.Value)
	case FilterTag:
		for _, t := range a.Tags {
			if t == f.Value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func compareSize(assetSize int64, op Operator, value string) bool {
	target := ParseSize(value)
	size := float64(assetSize)
	switch op {
	case OpGreater:
		return size > target
	case OpLess:
		return size < target
	case OpGreaterE:
		return size >= target
	case OpLessE:
		return size <= target
	case OpEqual:
		return math.Abs(size-target) < sizeEpsilon
	default:
		return false
	}
}

// compareDuration treats a zero duration as "no duration": such assets
// never match a duration filter, regardless of operator.
func compareDuration(assetDuration float64, op Operator, value string) bool {
	if assetDuration == 0 {
		return false
	}
	target, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	switch op {
	case OpGreater:
		return assetDuration > target
	case OpLess:
		return assetDuration < target
	case OpGreaterE:
		return assetDuration >= target
	case OpLessE:
		return assetDuration <= target
	case OpEqual:
		return math.Abs(assetDuration-target) < durationEpsilon
	default:
		return false
	}
}

// ParseSize converts a size string like "100MB" or "1.5GB" to bytes.
// Units B, KB, MB, GB are recognized case-insensitively; an unknown unit
// multiplies by 1 and an unparseable string resolves to 0, never an
// error.
func ParseSize(s string) float64 {
	m := sizeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	mult, ok := sizeUnits[strings.ToUpper(m[2])]
	if !ok {
		mult = 1
	}
	return value * mult
}
