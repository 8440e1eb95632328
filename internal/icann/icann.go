// Package icann provides the set of recognized country-code suffixes
// used by the ccTLD alias checks.
package icann

import (
	"fmt"
	"os"
	"strings"

	"github.com/creachadair/mds/mapset"
)

// Set is a set of country-code suffixes. A suffix may be multi-label
// ("co.uk" as well as "uk"); membership is tested against both whole
// alias suffixes and bare top-level labels.
type Set = mapset.Set[string]

// Section markers of the ICANN span in a public suffix list dat file.
const (
	sectionStart = "// ===BEGIN ICANN DOMAINS==="
	sectionEnd   = "// ===END ICANN DOMAINS==="
)

// ParseDat extracts the country-code suffixes from the ICANN section
// of a public suffix list dat file. Suffixes whose top-level label is
// not a two-letter country code (generic TLDs like "com") are left
// out. Wildcard and exception markers are stripped.
func ParseDat(bs []byte) (Set, error) {
	lines := strings.Split(string(bs), "\n")

	start, end := -1, -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case sectionStart:
			if start >= 0 {
				return nil, fmt.Errorf("found section marker %q more than once", sectionStart)
			}
			start = i
		case sectionEnd:
			if end < 0 {
				end = i
			}
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("did not find section marker %q", sectionStart)
	}
	if end < 0 {
		return nil, fmt.Errorf("did not find section marker %q", sectionEnd)
	}
	if end < start {
		return nil, fmt.Errorf("found %q before %q (line %d vs %d)", sectionEnd, sectionStart, end+1, start+1)
	}

	ret := mapset.New[string]()
	for _, line := range lines[start+1 : end] {
		suffix := strings.TrimSpace(line)
		if suffix == "" || strings.HasPrefix(suffix, "//") {
			continue
		}
		suffix = strings.TrimPrefix(suffix, "*.")
		suffix = strings.TrimPrefix(suffix, "!")
		if !isCountryCode(suffix) {
			continue
		}
		ret.Add(suffix)
	}
	return ret, nil
}

// LoadFile reads a public suffix list dat file and returns its
// country-code suffixes.
func LoadFile(path string) (Set, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDat(bs)
}

// isCountryCode reports whether the final label of suffix is a
// two-letter country code.
func isCountryCode(suffix string) bool {
	tld := suffix
	if i := strings.LastIndexByte(suffix, '.'); i >= 0 {
		tld = suffix[i+1:]
	}
	if len(tld) != 2 {
		return false
	}
	for _, r := range tld {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
