package identifier

import (
	"regexp"
	"strings"
)

const (
	// ItemPathMarker marks an nb.no item URL, e.g. https://www.nb.no/items/<hex>
	ItemPathMarker = "nb.no/items/"

	// URNPrefix is the prefix of a full NBN URN, which is already canonical.
	URNPrefix = "URN:NBN:"
)

var itemIDPattern = regexp.MustCompile(`/items/([a-f0-9]+)`)

// Resolve turns user input (item URL, URN or bare id) into the media id used
// to fetch metadata. Item URLs are reduced to their hex id; URNs and bare ids
// are already canonical. It never fails: input with no recognizable pattern
// is returned trimmed so the fetch can report the problem.
func Resolve(raw string) string {
	input := strings.TrimSpace(raw)

	if strings.Contains(input, ItemPathMarker) {
		if m := itemIDPattern.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}
	return input
}

// IsURN reports whether s is a full URN:NBN string.
func IsURN(s string) bool {
	return strings.HasPrefix(s, URNPrefix)
}
