// Package checks implements the validation engine for first-party set
// submissions. Each checker is a pure function over the loaded set
// model that returns its findings; nothing short-circuits, so one run
// reports every problem it can find.
package checks

import (
	"slices"

	"github.com/creachadair/mds/mapset"
	"github.com/firstpartysets/list/tools/internal/fps"
	"github.com/firstpartysets/list/tools/internal/icann"
	"github.com/firstpartysets/list/tools/internal/site"
)

// Offline runs the checks that need no network access: global
// exclusivity, rationale completeness, site format, and ccTLD alias
// consistency. Findings come back in a deterministic order.
func Offline(l *fps.List, countryCodes icann.Set) []error {
	var errs []error
	errs = append(errs, Exclusivity(l)...)
	errs = append(errs, Rationales(l)...)
	errs = append(errs, Format(l)...)
	errs = append(errs, Aliases(l, countryCodes)...)
	return errs
}

// Exclusivity verifies that no site is claimed by more than one set
// in any role. Sets are visited in submission order with a running
// claimed-site set, so the first claimant of a site is treated as
// legitimate and every later claim is flagged.
func Exclusivity(l *fps.List) []error {
	var errs []error
	claimed := mapset.New[string]()
	for _, set := range l.All() {
		if claimed.Has(set.Primary) {
			errs = append(errs, ErrExclusiveMembership{
				Role:  fps.RolePrimary,
				Sites: []string{set.Primary},
			})
		} else {
			claimed.Add(set.Primary)
		}

		for _, group := range []struct {
			role  fps.Role
			sites []string
		}{
			{fps.RoleAssociated, set.AssociatedSites},
			{fps.RoleService, set.ServiceSites},
		} {
			if len(group.sites) == 0 {
				continue
			}
			if overlap := intersect(claimed, group.sites); len(overlap) > 0 {
				errs = append(errs, ErrExclusiveMembership{Role: group.role, Sites: overlap})
			} else {
				claimed.Add(group.sites...)
			}
		}

		for _, alias := range set.AliasKeys() {
			siblings := set.CCTLDs[alias]
			if overlap := intersect(claimed, siblings); len(overlap) > 0 {
				errs = append(errs, ErrExclusiveMembership{Role: fps.RoleAliasSibling, Sites: overlap})
			} else {
				claimed.Add(siblings...)
			}
		}
	}
	return errs
}

// intersect returns the members of sites already present in claimed,
// preserving their order in sites.
func intersect(claimed mapset.Set[string], sites []string) []string {
	var ret []string
	for _, s := range sites {
		if claimed.Has(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

// Rationales verifies that every associated and service site has a
// rationale entry. A set with member sites but no rationaleBySite
// field at all gets a single whole-set finding instead of one per
// site.
func Rationales(l *fps.List) []error {
	var errs []error
	for _, set := range l.All() {
		members := set.MemberSites()
		if len(members) == 0 {
			continue
		}
		if set.RationaleBySite == nil {
			errs = append(errs, ErrMissingRationaleField{Primary: set.Primary})
			continue
		}
		for _, m := range members {
			if _, ok := set.RationaleBySite[m]; !ok {
				errs = append(errs, ErrMissingRationale{Site: m})
			}
		}
	}
	return errs
}

// Format verifies that every site of every set, in every role, uses
// the https scheme and is a valid registrable name. A site can fail
// both rules and then yields both findings, but a site is checked only
// once no matter how many roles it occupies.
func Format(l *fps.List) []error {
	var errs []error
	for _, set := range l.All() {
		for _, m := range set.Members() {
			if !site.IsHTTPS(m.Site) {
				errs = append(errs, ErrNotHTTPS{Site: m.Site, Role: m.Role})
			}
			if _, err := site.RegistrableDomain(m.Site); err != nil {
				errs = append(errs, ErrInvalidRegistrableName{Site: m.Site, Role: m.Role})
			}
		}
	}
	return errs
}

// Aliases verifies the ccTLD mapping of every set: each alias key
// must be a member of its own set, and each sibling must share the
// key's registrable label and carry a recognized country code. When
// the key itself is country-coded, "com" is additionally accepted for
// siblings, accommodating generic-then-localized naming.
func Aliases(l *fps.List, countryCodes icann.Set) []error {
	var errs []error
	for _, set := range l.All() {
		for _, alias := range set.AliasKeys() {
			if alias != set.Primary && !slices.Contains(set.MemberSites(), alias) {
				errs = append(errs, ErrAliasNotInSet{Alias: alias, Primary: set.Primary})
			}

			label, suffix, _ := site.SplitAlias(alias)
			acceptCom := countryCodes.Has(suffix)
			for _, sibling := range set.CCTLDs[alias] {
				sibLabel, _, _ := site.SplitAlias(sibling)
				if sibLabel != label {
					errs = append(errs, ErrAliasLabelMismatch{Alias: alias, Site: sibling})
				}
				code := site.TLDLabel(sibling)
				if !countryCodes.Has(code) && !(acceptCom && code == "com") {
					errs = append(errs, ErrInvalidCountryCode{Code: code, Site: sibling})
				}
			}
		}
	}
	return errs
}
