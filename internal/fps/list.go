package fps

import (
	"encoding/json"
	"fmt"
)

// Submission is the raw submission document.
type Submission struct {
	Sets []*Set `json:"sets"`
}

// ParseSubmission decodes a submission document. The document is
// expected to have passed schema validation already; this only decodes
// the JSON into the typed records.
func ParseSubmission(bs []byte) (*Submission, error) {
	var sub Submission
	if err := json.Unmarshal(bs, &sub); err != nil {
		return nil, fmt.Errorf("decoding submission: %w", err)
	}
	return &sub, nil
}

// List is the loaded set model for one validation run: every set
// keyed by its primary, with the primaries kept in submission order so
// that checks over the model are deterministic.
type List struct {
	// Primaries holds the set primaries in submission order.
	Primaries []string
	// Sets indexes each set by its primary.
	Sets map[string]*Set
}

// All returns the sets in submission order.
func (l *List) All() []*Set {
	ret := make([]*Set, 0, len(l.Primaries))
	for _, p := range l.Primaries {
		ret = append(ret, l.Sets[p])
	}
	return ret
}

// ErrDuplicatePrimary reports that a primary appears in more than one
// set record of a submission.
type ErrDuplicatePrimary struct {
	Primary string
}

func (e ErrDuplicatePrimary) Error() string {
	return fmt.Sprintf("%s is already a primary of another set", e.Primary)
}

// LoadSets builds the List from a submission. When a primary is
// claimed by more than one record, the first record wins and each
// later claim becomes a duplicate-primary finding; the partial List is
// returned regardless so the remaining checks can still run.
func LoadSets(sub *Submission) (*List, []error) {
	l := &List{Sets: map[string]*Set{}}
	var errs []error
	for _, set := range sub.Sets {
		if _, ok := l.Sets[set.Primary]; ok {
			errs = append(errs, ErrDuplicatePrimary{Primary: set.Primary})
			continue
		}
		l.Primaries = append(l.Primaries, set.Primary)
		l.Sets[set.Primary] = set
	}
	return l, errs
}

// ChangedPrimaries returns the primaries of sets in after that are new
// or modified relative to before, in after's order. It is used to
// scope the live checks of a pull request to the sets the change
// actually touches.
func ChangedPrimaries(before, after *List) []string {
	var ret []string
	for _, p := range after.Primaries {
		base, ok := before.Sets[p]
		if !ok || !base.equal(after.Sets[p]) {
			ret = append(ret, p)
		}
	}
	return ret
}
