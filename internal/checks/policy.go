package checks

import (
	"context"

	"github.com/firstpartysets/list/tools/internal/webapi"
	"github.com/rs/zerolog/log"
)

// ServicePolicy runs the three behavioral checks on one service site:
// the indexing opt-out check, the advertising marker check, and the
// non-endpoint check. The checks are independent; a site can pick up
// findings from all three.
func ServicePolicy(ctx context.Context, c *webapi.Client, svc string) []error {
	log.Debug().Str("site", svc).Msg("checking service site policy")
	var errs []error
	errs = append(errs, checkIndexing(ctx, c, svc)...)
	errs = append(errs, checkAdsTxt(ctx, c, svc)...)
	errs = append(errs, checkEndpoint(ctx, c, svc)...)
	return errs
}

// checkIndexing requires a service site that serves a robots.txt to
// also send a noindex X-Robots-Tag on its root page. An unreachable
// robots.txt is a benign outcome.
func checkIndexing(ctx context.Context, c *webapi.Client, svc string) []error {
	resp, err := c.Get(ctx, svc+"/robots.txt")
	if err != nil {
		return unexpectedOnly(svc, err)
	}
	if !resp.Succeeded() {
		return nil
	}
	root, err := c.Get(ctx, svc)
	if err != nil {
		return unexpectedOnly(svc, err)
	}
	tag := root.Header.Get("X-Robots-Tag")
	if tag != "noindex" {
		return []error{ErrNoIndexHeader{Site: svc, Value: tag}}
	}
	return nil
}

// checkAdsTxt flags a service site that serves an ads.txt file at
// all; service sites must not carry advertising.
func checkAdsTxt(ctx context.Context, c *webapi.Client, svc string) []error {
	resp, err := c.Get(ctx, svc+"/ads.txt")
	if err != nil {
		return unexpectedOnly(svc, err)
	}
	if resp.Succeeded() {
		return []error{ErrAdsTxtServed{Site: svc}}
	}
	return nil
}

// checkEndpoint flags a service site whose root page answers in place:
// a service site must redirect elsewhere or fail, never be directly
// browsable.
func checkEndpoint(ctx context.Context, c *webapi.Client, svc string) []error {
	resp, err := c.Get(ctx, svc)
	if err != nil {
		return unexpectedOnly(svc, err)
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 600 {
		return nil
	}
	if resp.FinalURL == svc || resp.FinalURL == svc+"/" {
		return []error{ErrServiceEndpoint{Site: svc}}
	}
	return nil
}

// unexpectedOnly converts a fetch failure into a finding unless it
// matches the expected unreachable signatures.
func unexpectedOnly(svc string, err error) []error {
	if webapi.ExpectedUnreachable(err) {
		return nil
	}
	return []error{ErrUnexpectedFetch{Site: svc, Err: err}}
}
