package checks

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/creachadair/mds/mapset"
	"github.com/firstpartysets/list/tools/internal/fps"
	"github.com/firstpartysets/list/tools/internal/site"
	"github.com/firstpartysets/list/tools/internal/webapi"
	"github.com/rs/zerolog/log"
)

// WellKnownPath is where every set member is expected to publish its
// own set declaration.
const WellKnownPath = "/.well-known/first-party-set.json"

// WellKnown checks one set against the declarations its sites publish:
// the primary's declaration is diffed field by field against the
// submission, and every other member must name this set's primary as
// its own. Fetch and parse failures become findings, never aborts.
func WellKnown(ctx context.Context, c *webapi.Client, set *fps.Set) []error {
	var errs []error

	url := set.Primary + WellKnownPath
	log.Debug().Str("url", url).Msg("checking primary well-known declaration")
	var doc map[string]json.RawMessage
	if err := c.JSON(ctx, url, &doc); err != nil {
		errs = append(errs, ErrWellKnownUnreachable{URL: url, Err: err})
	} else {
		errs = append(errs, diffDeclaration(set, doc, url)...)
	}

	members := set.MemberSites()
	members = append(members, set.AliasSiblings()...)
	for _, member := range members {
		errs = append(errs, checkMemberDeclaration(ctx, c, set.Primary, member)...)
	}
	return errs
}

// diffDeclaration compares the primary's fetched declaration against
// the submitted set. Only fields present in the declaration are
// compared; an omitted field is not a finding.
func diffDeclaration(set *fps.Set, doc map[string]json.RawMessage, url string) []error {
	var errs []error

	if raw, ok := doc["primary"]; ok {
		var declared string
		if err := json.Unmarshal(raw, &declared); err != nil {
			errs = append(errs, ErrWellKnownUnreachable{URL: url, Err: fmt.Errorf("field primary: %w", err)})
		} else if declared != set.Primary {
			errs = append(errs, ErrWellKnownMismatch{
				Primary: set.Primary,
				Field:   "primary",
				Members: []string{declared, set.Primary},
			})
		}
	}

	for _, field := range []struct {
		name      string
		submitted []string
	}{
		{"associatedSites", set.AssociatedSites},
		{"serviceSites", set.ServiceSites},
	} {
		raw, ok := doc[field.name]
		if !ok {
			continue
		}
		var declared []string
		if err := json.Unmarshal(raw, &declared); err != nil {
			errs = append(errs, ErrWellKnownUnreachable{URL: url, Err: fmt.Errorf("field %s: %w", field.name, err)})
			continue
		}
		if diff := symmetricDiff(declared, field.submitted); len(diff) > 0 {
			site.Sort(diff)
			errs = append(errs, ErrWellKnownMismatch{Primary: set.Primary, Field: field.name, Members: diff})
		}
	}

	if raw, ok := doc["ccTLDs"]; ok {
		var declared map[string][]string
		if err := json.Unmarshal(raw, &declared); err != nil {
			errs = append(errs, ErrWellKnownUnreachable{URL: url, Err: fmt.Errorf("field ccTLDs: %w", err)})
			return errs
		}
		var diff []string
		for alias, siblings := range declared {
			submitted, ok := set.CCTLDs[alias]
			if !ok {
				diff = append(diff, alias)
				continue
			}
			diff = append(diff, symmetricDiff(siblings, submitted)...)
		}
		for alias := range set.CCTLDs {
			if _, ok := declared[alias]; !ok {
				diff = append(diff, alias)
			}
		}
		if len(diff) > 0 {
			site.Sort(diff)
			diff = slices.Compact(diff)
			errs = append(errs, ErrWellKnownMismatch{Primary: set.Primary, Field: "ccTLDs", Members: diff})
		}
	}

	return errs
}

// checkMemberDeclaration verifies that a member site's own well-known
// declaration names primary as its primary.
func checkMemberDeclaration(ctx context.Context, c *webapi.Client, primary, member string) []error {
	url := member + WellKnownPath
	log.Debug().Str("url", url).Msg("checking member well-known declaration")
	var doc map[string]json.RawMessage
	if err := c.JSON(ctx, url, &doc); err != nil {
		return []error{ErrWellKnownUnreachable{URL: url, Err: err}}
	}
	raw, ok := doc["primary"]
	if !ok {
		return []error{ErrWellKnownMissingPrimary{Site: member}}
	}
	var declared string
	if err := json.Unmarshal(raw, &declared); err != nil {
		return []error{ErrWellKnownUnreachable{URL: url, Err: fmt.Errorf("field primary: %w", err)}}
	}
	if declared != primary {
		return []error{ErrWellKnownPrimaryMismatch{Site: member, Primary: primary}}
	}
	return nil
}

// symmetricDiff returns the members present in exactly one of a and
// b, in a-then-b order.
func symmetricDiff(a, b []string) []string {
	sa, sb := mapset.New(a...), mapset.New(b...)
	var ret []string
	for _, x := range a {
		if !sb.Has(x) {
			ret = append(ret, x)
		}
	}
	for _, x := range b {
		if !sa.Has(x) {
			ret = append(ret, x)
		}
	}
	return ret
}
