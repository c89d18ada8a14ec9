package probe

import (
	"context"
	"time"

	"github.com/aleister1102/toughcanvas/internal/catalog"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/rs/zerolog"
)

// FixtureChecker reports whether a file:// fixture exists on disk
type FixtureChecker interface {
	Exists(rawURL string) (bool, error)
}

// Checker looks for link rot across a catalog: remote pages are probed over
// HTTP and local fixtures are checked on disk
type Checker struct {
	remote   RemoteProber
	fixtures FixtureChecker
	logger   zerolog.Logger
	now      func() time.Time
}

// NewChecker creates a checker
func NewChecker(remote RemoteProber, fixtures FixtureChecker, logger zerolog.Logger) *Checker {
	return &Checker{
		remote:   remote,
		fixtures: fixtures,
		logger:   logger.With().Str("component", "LinkChecker").Logger(),
		now:      time.Now,
	}
}

// SplitTargets separates local fixture pages from remote pages, keeping order
func SplitTargets(pages []catalog.PageDescriptor) (local, remote []catalog.PageDescriptor) {
	for _, p := range pages {
		if p.IsLocal() {
			local = append(local, p)
		} else {
			remote = append(remote, p)
		}
	}
	return local, remote
}

// Check returns one result per page, in the order given
func (c *Checker) Check(ctx context.Context, pages []catalog.PageDescriptor) ([]models.LinkCheckResult, error) {
	local, remote := SplitTargets(pages)
	byPage := make(map[string]models.LinkCheckResult, len(pages))

	for _, p := range local {
		byPage[p.Name] = c.checkFixture(p)
	}

	var probeErr error
	if len(remote) > 0 {
		urls := make([]string, 0, len(remote))
		for _, p := range remote {
			urls = append(urls, p.URL)
		}

		probed, err := c.remote.Probe(ctx, urls)
		probeErr = err
		for _, p := range remote {
			res, ok := probed[p.URL]
			if !ok {
				res = models.LinkCheckResult{URL: p.URL, Error: "no response", CheckedAt: c.now()}
			}
			res.Page = p.Name
			byPage[p.Name] = res
		}
	}

	results := make([]models.LinkCheckResult, 0, len(pages))
	broken := 0
	for _, p := range pages {
		res := byPage[p.Name]
		if !res.Reachable {
			broken++
			c.logger.Warn().Str("page", p.Name).Str("url", p.URL).Str("error", res.Error).Int("status_code", res.StatusCode).Msg("Page unreachable")
		}
		results = append(results, res)
	}

	c.logger.Info().Int("pages", len(pages)).Int("broken", broken).Msg("Link check finished")
	return results, probeErr
}

func (c *Checker) checkFixture(p catalog.PageDescriptor) models.LinkCheckResult {
	res := models.LinkCheckResult{Page: p.Name, URL: p.URL, Local: true, CheckedAt: c.now()}

	ok, err := c.fixtures.Exists(p.URL)
	switch {
	case err != nil:
		res.Error = err.Error()
	case !ok:
		res.Error = "fixture not found"
	default:
		res.Reachable = true
	}
	return res
}
