package fps

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func checkDiff(t *testing.T, whatIsBeingDiffed string, got, want any) {
	t.Helper()
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("%s is wrong (-got+want):\n%s", whatIsBeingDiffed, diff)
	}
}

func TestLoadSets(t *testing.T) {
	sub := &Submission{
		Sets: []*Set{
			{Primary: "https://a.example", AssociatedSites: []string{"https://b.example"}},
			{Primary: "https://a.example", AssociatedSites: []string{"https://c.example"}},
			{Primary: "https://d.example"},
		},
	}
	l, errs := LoadSets(sub)

	checkDiff(t, "load findings", errs, []error{
		ErrDuplicatePrimary{Primary: "https://a.example"},
	})
	checkDiff(t, "primaries", l.Primaries, []string{"https://a.example", "https://d.example"})
	// The first record wins; the duplicate's data is discarded.
	checkDiff(t, "kept set", l.Sets["https://a.example"].AssociatedSites, []string{"https://b.example"})
}

func TestMembers(t *testing.T) {
	set := &Set{
		Primary:         "https://a.example",
		AssociatedSites: []string{"https://b.example"},
		ServiceSites:    []string{"https://c.example"},
		CCTLDs: map[string][]string{
			"https://a.example": {"https://a.co.uk", "https://a.de"},
		},
	}
	// The alias key equals the primary and must not be listed twice.
	checkDiff(t, "members", set.Members(), []Member{
		{Site: "https://a.example", Role: RolePrimary},
		{Site: "https://b.example", Role: RoleAssociated},
		{Site: "https://c.example", Role: RoleService},
		{Site: "https://a.co.uk", Role: RoleAliasSibling},
		{Site: "https://a.de", Role: RoleAliasSibling},
	})
}

func TestAliasAccessors(t *testing.T) {
	set := &Set{
		Primary: "https://a.example",
		CCTLDs: map[string][]string{
			"https://b.example": {"https://b.de"},
			"https://a.example": {"https://a.de"},
		},
	}
	checkDiff(t, "alias keys", set.AliasKeys(), []string{"https://a.example", "https://b.example"})
	checkDiff(t, "alias siblings", set.AliasSiblings(), []string{"https://a.de", "https://b.de"})
}

func TestParseSubmissionError(t *testing.T) {
	if _, err := ParseSubmission([]byte("{not json")); err == nil {
		t.Error("ParseSubmission accepted malformed JSON")
	}
}

func TestChangedPrimaries(t *testing.T) {
	mk := func(sets ...*Set) *List {
		l := &List{Sets: map[string]*Set{}}
		for _, s := range sets {
			l.Primaries = append(l.Primaries, s.Primary)
			l.Sets[s.Primary] = s
		}
		return l
	}

	unchanged := &Set{
		Primary:         "https://a.example",
		AssociatedSites: []string{"https://b.example"},
		RationaleBySite: map[string]string{"https://b.example": "shared brand"},
	}
	before := mk(
		unchanged,
		&Set{Primary: "https://c.example"},
	)
	after := mk(
		unchanged,
		&Set{Primary: "https://c.example", ServiceSites: []string{"https://cdn.c.example"}},
		&Set{Primary: "https://new.example"},
	)

	checkDiff(t, "changed primaries", ChangedPrimaries(before, after), []string{
		"https://c.example",
		"https://new.example",
	})
	checkDiff(t, "no changes", ChangedPrimaries(before, before), []string(nil))
}
