package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Numeric size bounds for the catalog's garments.
const (
	MinNumericSize = 28
	MaxNumericSize = 60
)

// Spelled-out and sloppy size words mapped to canonical codes.
var sizeSynonyms = map[string]string{
	"small":   "S",
	"smal":    "S",
	"sml":     "S",
	"küçük":   "S",
	"medium":  "M",
	"mediım":  "M",
	"orta":    "M",
	"large":   "L",
	"larj":    "L",
	"xlarge":  "XL",
	"xlarj":   "XL",
	"xsmall":  "XS",
	"xxlarge": "XXL",
}

var letterSizes = map[string]string{
	"xs": "XS", "s": "S", "m": "M", "l": "L", "xl": "XL", "xxl": "XXL",
}

// Multi-letter size carrying a possessive or question vowel tail, e.g.
// "xl i" typed together as "xli". Single letters take no tail: "si",
// "sı", "lu" and friends are possessive particles and real words, not
// sizes.
var letterSizeTail = regexp.MustCompile(`^(xs|xxl|xl)[iıuü]?$`)

// CanonicalSize maps a single token to its canonical size code ("S", "M",
// "42"). The second return is false when the token is not a size.
func CanonicalSize(token string) (string, bool) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return "", false
	}

	if n, err := strconv.Atoi(token); err == nil {
		if n >= MinNumericSize && n <= MaxNumericSize {
			return token, true
		}
		return "", false
	}

	if canonical, ok := letterSizes[token]; ok {
		return canonical, true
	}
	if canonical, ok := sizeSynonyms[token]; ok {
		return canonical, true
	}
	if m := letterSizeTail.FindStringSubmatch(token); m != nil {
		return letterSizes[m[1]], true
	}
	return "", false
}
