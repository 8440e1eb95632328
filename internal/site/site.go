// Package site provides parsing and classification of the site strings
// that appear in first-party set submissions.
//
// A "site" in a submission is a serialized origin such as
// "https://example.co.uk": an https scheme followed by a registrable
// domain name. This package answers the questions the checkers need to
// ask about those strings: does it use the encrypted scheme, is the
// host a valid registrable name under the public suffix list, and what
// are its registrable and top-level labels.
package site

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Scheme is the required transport prefix for every site in a
// submission.
const Scheme = "https://"

// IsHTTPS reports whether s begins with the required https scheme.
func IsHTTPS(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// Host returns the hostname portion of a site string, tolerating a
// missing or wrong scheme and any trailing path. The format checker
// reports wrong schemes separately, so every other check wants to
// operate on the bare host regardless.
func Host(s string) string {
	host := s
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+len("://"):]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}

// RegistrableDomain canonicalizes the host of s and returns its
// eTLD+1. It returns an error if the host is not valid under the
// registration-grade IDNA rules, if its top-level label is not a known
// public suffix, or if the host is itself a bare public suffix.
func RegistrableDomain(s string) (string, error) {
	host := Host(s)
	if host == "" {
		return "", fmt.Errorf("site %q has no host", s)
	}
	ascii, err := hostValidator.ToASCII(host)
	if err != nil {
		return "", err
	}
	suffix, icann := publicsuffix.PublicSuffix(ascii)
	if !icann && !strings.Contains(suffix, ".") {
		// The suffix fell through to the implicit single-label rule,
		// meaning the TLD is not in the public suffix list at all.
		return "", fmt.Errorf("%q is not a public suffix", suffix)
	}
	return publicsuffix.EffectiveTLDPlusOne(ascii)
}

// SplitAlias splits the host of s at its first dot, returning the
// registrable label and the remaining (possibly multi-label) suffix.
// ok is false when the host contains no dot.
func SplitAlias(s string) (label, suffix string, ok bool) {
	return strings.Cut(Host(s), ".")
}

// TLDLabel returns the final label of the host of s, e.g. "uk" for
// "https://example.co.uk". If the host has no dot it is returned
// whole.
func TLDLabel(s string) string {
	host := Host(s)
	if i := strings.LastIndexByte(host, '.'); i >= 0 {
		return host[i+1:]
	}
	return host
}

// Compare orders site strings for human-readable finding output. Ties
// under collation are broken bytewise so the order is total.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	if c := collateCompare(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Sort sorts sites in place using Compare.
func Sort(sites []string) {
	slices.SortFunc(sites, Compare)
}

// hostValidator is the IDNA profile used to canonicalize submitted
// hostnames. It applies the strict rules for domain registration, but
// rewrites valid-yet-non-canonical input to canonical form instead of
// rejecting it, the same concession to human-typed input the PSL
// tooling makes.
var hostValidator = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.ValidateLabels(true),
	idna.StrictDomainName(true),
	idna.VerifyDNSLength(true),
	idna.Transitional(false),
)

// Collators are not safe for concurrent use, so the shared instance is
// guarded by a mutex. The English collation gives a sensible order for
// latin hostnames and an acceptable one for everything else.
var (
	collatorMu   sync.Mutex
	siteCollator = collate.New(language.English)
)

func collateCompare(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	var buf collate.Buffer
	ka := siteCollator.KeyFromString(&buf, a)
	kb := siteCollator.KeyFromString(&buf, b)
	return bytes.Compare(ka, kb)
}
