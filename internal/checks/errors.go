package checks

import (
	"fmt"
	"strings"

	"github.com/firstpartysets/list/tools/internal/fps"
)

// ErrExclusiveMembership reports sites claimed by an earlier set in
// the submission, grouped by the role under which the later set claims
// them.
type ErrExclusiveMembership struct {
	Role  fps.Role
	Sites []string
}

func (e ErrExclusiveMembership) Error() string {
	if e.Role == fps.RolePrimary {
		return fmt.Sprintf("this primary is already registered in another first-party set: %s", e.Sites[0])
	}
	return fmt.Sprintf("these %s sites are already registered in another first-party set: %s",
		e.Role, strings.Join(e.Sites, ", "))
}

// ErrMissingRationale reports an associated or service site with no
// entry in its set's rationaleBySite mapping.
type ErrMissingRationale struct {
	Site string
}

func (e ErrMissingRationale) Error() string {
	return fmt.Sprintf("there is no provided rationale for %s", e.Site)
}

// ErrMissingRationaleField reports a set that has associated or
// service sites but no rationaleBySite field at all.
type ErrMissingRationaleField struct {
	Primary string
}

func (e ErrMissingRationaleField) Error() string {
	return fmt.Sprintf("a rationaleBySite field is required for the set with primary %s, but none is provided", e.Primary)
}

// ErrNotHTTPS reports a site that does not use the required https
// scheme.
type ErrNotHTTPS struct {
	Site string
	Role fps.Role
}

func (e ErrNotHTTPS) Error() string {
	return fmt.Sprintf("the provided %s site does not begin with https://: %s", e.Role, e.Site)
}

// ErrInvalidRegistrableName reports a site whose host is not a valid
// registrable name under the public suffix list.
type ErrInvalidRegistrableName struct {
	Site string
	Role fps.Role
}

func (e ErrInvalidRegistrableName) Error() string {
	return fmt.Sprintf("the provided %s site does not have an eTLD in the public suffix list: %s", e.Role, e.Site)
}

// ErrAliasNotInSet reports a ccTLD alias key that is not the primary,
// an associated site, or a service site of its own set.
type ErrAliasNotInSet struct {
	Alias   string
	Primary string
}

func (e ErrAliasNotInSet) Error() string {
	return fmt.Sprintf("the aliased site %s must be a primary, associated site, or service site within the set for %s", e.Alias, e.Primary)
}

// ErrAliasLabelMismatch reports a country-coded sibling whose
// registrable label differs from its alias key's.
type ErrAliasLabelMismatch struct {
	Alias string
	Site  string
}

func (e ErrAliasLabelMismatch) Error() string {
	return fmt.Sprintf("the registrable label of %s must match its alias %s", e.Site, e.Alias)
}

// ErrInvalidCountryCode reports a sibling whose top-level label is not
// a recognized country code.
type ErrInvalidCountryCode struct {
	Code string
	Site string
}

func (e ErrInvalidCountryCode) Error() string {
	return fmt.Sprintf("the provided country code %q in %s is not a recognized country code", e.Code, e.Site)
}

// ErrWellKnownMismatch reports a field whose members differ between
// the submission and the well-known declaration of a set's primary.
// For the primary field, Members holds the two conflicting values.
type ErrWellKnownMismatch struct {
	Primary string
	Field   string
	Members []string
}

func (e ErrWellKnownMismatch) Error() string {
	return fmt.Sprintf("the following member(s) of %s were not present in both the submission and the %s file of %s: %s",
		e.Field, WellKnownPath, e.Primary, strings.Join(e.Members, ", "))
}

// ErrWellKnownMissingPrimary reports a member site whose well-known
// declaration does not declare a primary at all.
type ErrWellKnownMissingPrimary struct {
	Site string
}

func (e ErrWellKnownMissingPrimary) Error() string {
	return fmt.Sprintf("the listed site %s does not have primary as a key in its %s file", e.Site, WellKnownPath)
}

// ErrWellKnownPrimaryMismatch reports a member site whose well-known
// declaration names a different primary than the set it was submitted
// under.
type ErrWellKnownPrimaryMismatch struct {
	Site    string
	Primary string
}

func (e ErrWellKnownPrimaryMismatch) Error() string {
	return fmt.Sprintf("the listed site %s does not have %s listed as its primary", e.Site, e.Primary)
}

// ErrWellKnownUnreachable reports that a well-known declaration could
// not be fetched or parsed. The live consistency check reports every
// such failure, including plain timeouts: "could not verify" is itself
// a result.
type ErrWellKnownUnreachable struct {
	URL string
	Err error
}

func (e ErrWellKnownUnreachable) Error() string {
	return fmt.Sprintf("experienced an error when trying to access %s: %v", e.URL, e.Err)
}

// ErrNoIndexHeader reports a service site that serves a robots.txt
// but does not send a noindex X-Robots-Tag on its root page. Value is
// the header the site did send, if any.
type ErrNoIndexHeader struct {
	Site  string
	Value string
}

func (e ErrNoIndexHeader) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("the service site %s has a robots.txt file, but does not have X-Robots-Tag in its header", e.Site)
	}
	return fmt.Sprintf("the service site %s has a robots.txt file, but does not have a noindex tag in its header (got %q)", e.Site, e.Value)
}

// ErrAdsTxtServed reports a service site that serves an ads.txt file.
type ErrAdsTxtServed struct {
	Site string
}

func (e ErrAdsTxtServed) Error() string {
	return fmt.Sprintf("the service site %s has an ads.txt file, this violates the policies for service sites", e.Site)
}

// ErrServiceEndpoint reports a service site whose root page is
// directly browsable instead of redirecting or failing.
type ErrServiceEndpoint struct {
	Site string
}

func (e ErrServiceEndpoint) Error() string {
	return fmt.Sprintf("the service site must not be an endpoint: %s", e.Site)
}

// ErrUnexpectedFetch reports a network failure on a service site
// probe that does not match the expected unreachable signatures.
type ErrUnexpectedFetch struct {
	Site string
	Err  error
}

func (e ErrUnexpectedFetch) Error() string {
	return fmt.Sprintf("unexpected error for service site %s: %v", e.Site, e.Err)
}
