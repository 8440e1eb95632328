package checks

import (
	"context"

	"github.com/creachadair/mds/mapset"
	"github.com/creachadair/taskgroup"
	"github.com/firstpartysets/list/tools/internal/fps"
	"github.com/firstpartysets/list/tools/internal/webapi"
)

// Online runs the checks that probe the submitted sites themselves:
// the well-known consistency check per set, and the service site
// policy checks per service site. Probes fan out concurrently up to
// the client's limit; each one carries the client timeout, so no
// unreachable site can stall or abort the rest of the run.
//
// If only is non-nil, work is restricted to the sets whose primary it
// contains. Finding order across sets is not stable, but the findings
// of one set or service site stay grouped.
func Online(ctx context.Context, c *webapi.Client, l *fps.List, only mapset.Set[string]) []error {
	var errs []error
	collect := taskgroup.NewCollector(func(found []error) {
		errs = append(errs, found...)
	})
	g, start := taskgroup.New(nil).Limit(c.Concurrency)

	for _, set := range l.All() {
		if only != nil && !only.Has(set.Primary) {
			continue
		}
		start(collect.NoError(func() []error { return WellKnown(ctx, c, set) }))
		for _, svc := range set.ServiceSites {
			start(collect.NoError(func() []error { return ServicePolicy(ctx, c, svc) }))
		}
	}

	g.Wait()
	return errs
}
