package stitching

import (
	"context"
	"log"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/geo"
)

// BridgeRouter computes auxiliary short routes used to close gaps between
// consecutive matched lines.
type BridgeRouter interface {
	Resolve(ctx context.Context, regionID int64, waypoints datastructure.Polyline) datastructure.Polyline
}

// Config holds the stitching thresholds in meters. EpsConnectM gaps are
// treated as matching noise and connected directly; up to MaxBridgeTryM a
// bridge route is attempted; anything larger, or an end-to-end span of
// MaxEndToEndM and above, forces a split.
type Config struct {
	GapBreakM     float64
	MaxBridgeTryM float64
	MaxEndToEndM  float64
	EpsConnectM   float64
}

// PathStitcher merges the ordered matched lines into maximal chunks,
// deciding connect / bridge / split per adjacent pair. It is the defense
// against both false breaks (gps noise, momentary mismatch) and false
// continuity (straight-line shortcuts across impossible gaps).
type PathStitcher struct {
	router BridgeRouter
	cfg    Config

	bridgesBuilt int
	forcedSplits int
}

func NewPathStitcher(router BridgeRouter, cfg Config) *PathStitcher {
	return &PathStitcher{router: router, cfg: cfg}
}

func degenerate(line datastructure.Polyline) bool {
	if len(line) < 2 {
		return true
	}
	return len(line) == 2 && line[0] == line[1]
}

// Stitch walks the matched lines (paired with each segment's region id) and
// returns the ordered chunk list, every chunk >= 2 coordinates.
func (ps *PathStitcher) Stitch(ctx context.Context, lines []datastructure.Polyline, regionIDs []int64) []datastructure.Chunk {
	chunks := make([]datastructure.Chunk, 0)
	mergedCoords := make(datastructure.Polyline, 0)

	var prevEnd *datastructure.Coordinate
	var prevRegion int64
	hasPrevRegion := false

	flush := func() {
		if len(mergedCoords) >= 2 {
			chunks = append(chunks, mergedCoords)
		}
		mergedCoords = make(datastructure.Polyline, 0)
	}

	startNew := func(line datastructure.Polyline, rid int64) {
		flush()
		mergedCoords = append(mergedCoords, line...)
		end := line[len(line)-1]
		prevEnd = &end
		prevRegion = rid
		hasPrevRegion = true
	}

	for i, line := range lines {
		var rid int64
		if i < len(regionIDs) {
			rid = regionIDs[i]
		}

		if degenerate(line) {
			flush()
			prevEnd = nil
			hasPrevRegion = false
			continue
		}

		if prevEnd == nil {
			startNew(line, rid)
			continue
		}

		start := line[0]
		end := line[len(line)-1]
		gapM := geo.HaversineMeter(prevEnd.Lat, prevEnd.Lon, start.Lat, start.Lon)
		endToEndM := geo.HaversineMeter(prevEnd.Lat, prevEnd.Lon, end.Lat, end.Lon)

		if endToEndM >= ps.cfg.MaxEndToEndM {
			ps.forcedSplits++
			log.Printf("force split (end to end): %.1fm", endToEndM)
			startNew(line, rid)
			continue
		}

		if gapM > ps.cfg.GapBreakM {
			if gapM > ps.cfg.MaxBridgeTryM {
				ps.forcedSplits++
				log.Printf("force split (gap too far): %.1fm", gapM)
				startNew(line, rid)
				continue
			}
			if !ps.appendBridge(ctx, &mergedCoords, *prevEnd, start, rid, prevRegion, hasPrevRegion) {
				ps.forcedSplits++
				log.Printf("bridge failed across %.1fm gap, split chunk", gapM)
				startNew(line, rid)
				continue
			}
		} else if gapM > ps.cfg.EpsConnectM {
			if !ps.appendBridge(ctx, &mergedCoords, *prevEnd, start, rid, prevRegion, hasPrevRegion) {
				ps.forcedSplits++
				log.Printf("short gap bridge failed at %.1fm, split chunk", gapM)
				startNew(line, rid)
				continue
			}
		}
		// gap <= EpsConnectM: implicit connection, small gaps are matching
		// noise rather than real breaks

		mergedCoords = datastructure.AppendDedup(mergedCoords, line)
		prevEnd = &end
		prevRegion = rid
		hasPrevRegion = true
	}

	flush()
	return chunks
}

// appendBridge routes a two-point bridge between the previous endpoint and
// the next line's start, preferring the previous segment's region graph.
// Returns false when no usable bridge exists.
func (ps *PathStitcher) appendBridge(ctx context.Context, mergedCoords *datastructure.Polyline,
	from, to datastructure.Coordinate, rid, prevRegion int64, hasPrevRegion bool) bool {

	bridgeRegion := rid
	if hasPrevRegion {
		bridgeRegion = prevRegion
	}

	bridge := ps.router.Resolve(ctx, bridgeRegion, datastructure.Polyline{from, to})
	if degenerate(bridge) {
		return false
	}

	*mergedCoords = datastructure.AppendDedup(*mergedCoords, bridge)
	ps.bridgesBuilt++
	return true
}

// BridgesBuilt reports how many gap bridges were routed successfully.
func (ps *PathStitcher) BridgesBuilt() int {
	return ps.bridgesBuilt
}

// ForcedSplits reports how many chunk boundaries were forced by distance
// thresholds or failed bridges.
func (ps *PathStitcher) ForcedSplits() int {
	return ps.forcedSplits
}
