// Package fps models first-party set submissions: the typed Set
// entity, the submission document that carries a list of them, and the
// ordered List the checkers run against.
package fps

import (
	"fmt"
	"slices"
)

// Set is one first-party set record from a submission.
//
// Field names match the submission's JSON fields, which are also the
// fields of the well-known declaration each member site publishes.
type Set struct {
	// Primary identifies the set. It is unique across a submission.
	Primary string `json:"primary"`
	// CCTLDs maps an aliased site of this set to its country-coded
	// variants.
	CCTLDs map[string][]string `json:"ccTLDs,omitempty"`
	// AssociatedSites are sites owned by the same organization as the
	// primary.
	AssociatedSites []string `json:"associatedSites,omitempty"`
	// ServiceSites are auxiliary-service sites, subject to the service
	// site policy checks.
	ServiceSites []string `json:"serviceSites,omitempty"`
	// RationaleBySite justifies each associated and service site.
	RationaleBySite map[string]string `json:"rationaleBySite,omitempty"`
}

// Role names the position a site occupies within a set.
type Role int

const (
	RolePrimary Role = iota
	RoleAssociated
	RoleService
	RoleAlias
	RoleAliasSibling
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleAssociated:
		return "associated"
	case RoleService:
		return "service"
	case RoleAlias:
		return "ccTLD alias"
	case RoleAliasSibling:
		return "ccTLD"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Member is one site of a set tagged with its role.
type Member struct {
	Site string
	Role Role
}

// Members returns every distinct site of the set tagged by role, in a
// deterministic order: primary, associated sites, service sites, then
// alias keys and their siblings by sorted key. A site appearing under
// several roles (an alias key is usually also the primary) is reported
// once, under the first role that claims it.
func (s *Set) Members() []Member {
	seen := map[string]bool{}
	var ret []Member
	add := func(site string, role Role) {
		if seen[site] {
			return
		}
		seen[site] = true
		ret = append(ret, Member{Site: site, Role: role})
	}

	add(s.Primary, RolePrimary)
	for _, m := range s.AssociatedSites {
		add(m, RoleAssociated)
	}
	for _, m := range s.ServiceSites {
		add(m, RoleService)
	}
	for _, alias := range s.AliasKeys() {
		add(alias, RoleAlias)
		for _, sibling := range s.CCTLDs[alias] {
			add(sibling, RoleAliasSibling)
		}
	}
	return ret
}

// MemberSites returns the associated sites followed by the service
// sites. These are the sites that need a rationale and that alias keys
// may reference.
func (s *Set) MemberSites() []string {
	ret := make([]string, 0, len(s.AssociatedSites)+len(s.ServiceSites))
	ret = append(ret, s.AssociatedSites...)
	ret = append(ret, s.ServiceSites...)
	return ret
}

// AliasKeys returns the aliased sites of the ccTLD mapping in sorted
// order, so that iteration over the mapping is deterministic.
func (s *Set) AliasKeys() []string {
	keys := make([]string, 0, len(s.CCTLDs))
	for k := range s.CCTLDs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// AliasSiblings returns every country-coded sibling site listed in the
// ccTLD mapping, in sorted-key order.
func (s *Set) AliasSiblings() []string {
	var ret []string
	for _, alias := range s.AliasKeys() {
		ret = append(ret, s.CCTLDs[alias]...)
	}
	return ret
}

// equal reports whether two sets carry the same submitted data.
func (s *Set) equal(o *Set) bool {
	if s.Primary != o.Primary ||
		!slices.Equal(s.AssociatedSites, o.AssociatedSites) ||
		!slices.Equal(s.ServiceSites, o.ServiceSites) {
		return false
	}
	if len(s.RationaleBySite) != len(o.RationaleBySite) {
		return false
	}
	for k, v := range s.RationaleBySite {
		if ov, ok := o.RationaleBySite[k]; !ok || ov != v {
			return false
		}
	}
	if len(s.CCTLDs) != len(o.CCTLDs) {
		return false
	}
	for k, v := range s.CCTLDs {
		if ov, ok := o.CCTLDs[k]; !ok || !slices.Equal(v, ov) {
			return false
		}
	}
	return true
}
