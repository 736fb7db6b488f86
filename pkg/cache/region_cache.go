package cache

import (
	"context"
	"errors"
	"fmt"
	"log"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/kv"
	"traceroad/pkg/provider"
)

var (
	// ErrGraphUnavailable means every configured radius expansion failed
	// against the provider. Wraps the last provider error when there is one.
	ErrGraphUnavailable = errors.New("graph unavailable")

	ErrUnknownRegion = errors.New("unknown region id")
)

// CacheKey identifies exactly one stored graph. Lookup is exact match only;
// radius expansion is driven by trying successive keys, never by searching
// existing ones.
type CacheKey struct {
	RegionID    int64
	NetworkType string
	RadiusM     int
}

func (k CacheKey) String() string {
	return fmt.Sprintf("graph/%d/%s/%d", k.RegionID, k.NetworkType, k.RadiusM)
}

// RegionGraphCache owns every road graph fetched during a run. Two tiers: an
// in-memory map and an optional persistent store that survives runs. The map
// only grows, nothing is ever evicted or replaced.
//
// Not safe for concurrent use: the matching pipeline is single-writer by
// design. Wrap with external locking before sharing across goroutines.
type RegionGraphCache struct {
	regions     map[int64]datastructure.Region
	provider    provider.GraphProvider
	store       *kv.GraphStore // may be nil
	baseRadiusM float64
	expansionsM []float64
	cache       map[CacheKey]*datastructure.Graph
}

func NewRegionGraphCache(regions []datastructure.Region, p provider.GraphProvider,
	store *kv.GraphStore, baseRadiusM float64, expansionsM []float64) *RegionGraphCache {

	regionMap := make(map[int64]datastructure.Region, len(regions))
	for _, r := range regions {
		regionMap[r.ID] = r
	}
	if len(expansionsM) == 0 {
		expansionsM = []float64{0}
	}
	return &RegionGraphCache{
		regions:     regionMap,
		provider:    p,
		store:       store,
		baseRadiusM: baseRadiusM,
		expansionsM: expansionsM,
		cache:       make(map[CacheKey]*datastructure.Graph),
	}
}

// GetWithExpand returns the region's graph for the given network type,
// walking the configured radius ladder: cache hit wins immediately, a miss
// asks the provider, a provider failure moves on to the next radius. Fails
// with ErrGraphUnavailable only after the whole ladder is exhausted.
func (c *RegionGraphCache) GetWithExpand(ctx context.Context, regionID int64, networkType string) (*datastructure.Graph, error) {
	region, ok := c.regions[regionID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRegion, regionID)
	}

	var lastErr error
	for _, extra := range c.expansionsM {
		radius := c.baseRadiusM + extra
		key := CacheKey{RegionID: regionID, NetworkType: networkType, RadiusM: int(radius)}

		if g, ok := c.cache[key]; ok {
			return g, nil
		}

		if c.store != nil {
			if g, err := c.store.GetGraph(key.String()); err == nil {
				c.cache[key] = g
				return g, nil
			}
		}

		g, err := c.provider.FetchGraph(ctx, region.CenterLat, region.CenterLon, radius, networkType)
		if err != nil {
			lastErr = err
			continue
		}

		c.cache[key] = g
		if c.store != nil {
			if err := c.store.PutGraph(key.String(), g); err != nil {
				log.Printf("persist graph %s: %v", key, err)
			}
		}
		return g, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphUnavailable, lastErr)
	}
	return nil, ErrGraphUnavailable
}

// Len reports how many graphs are held in memory.
func (c *RegionGraphCache) Len() int {
	return len(c.cache)
}
