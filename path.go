package backstage

import (
	"sort"
	"strings"
)

// FormatPath renders a location string from a template and a set of named
// substitution values. For each key in params, the first occurrence of the
// literal token ":key" in the template is replaced with the corresponding
// value, in a single pass per key.
//
// Keys are applied longest first so that a key which is a prefix of
// another (e.g. "name" and "namespace") never matches inside the longer
// placeholder. A key with no matching token is a no-op, and tokens left
// unresolved after all substitutions are kept verbatim.
func FormatPath(template string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		template = strings.Replace(template, ":"+key, params[key], 1)
	}
	return template
}
