package search

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SearchAll issues one search per query concurrently and waits for all of
// them. Each task writes only its own slot, so the returned groups follow
// query order regardless of completion order. A failed query is logged and
// leaves an empty slot, as does a panicking provider; it never affects its
// siblings.
func SearchAll(ctx context.Context, p Provider, queries []string, window Window) [][]Result {
	groups := make([][]Result, len(queries))
	if p == nil || len(queries) == 0 {
		return groups
	}
	var g errgroup.Group
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("provider", p.Name()).Str("query", q).Msg("search panicked; using empty result")
					groups[i] = []Result{}
				}
			}()
			start := time.Now()
			results, err := p.Search(ctx, q, window)
			if err != nil {
				log.Warn().Err(err).Str("provider", p.Name()).Str("query", q).Msg("search failed; using empty result")
				groups[i] = []Result{}
				return nil
			}
			log.Debug().Str("provider", p.Name()).Str("query", q).Int("results", len(results)).Dur("took", time.Since(start)).Msg("search done")
			groups[i] = results
			return nil
		})
	}
	_ = g.Wait()
	return groups
}
