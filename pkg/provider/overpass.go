package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"traceroad/pkg/datastructure"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// OverpassProvider downloads road networks from an overpass api endpoint.
// The analog of fetching a graph from a remote tile/extract service: one
// POST per (center, radius, network), no retries here - the region cache
// drives the radius ladder.
type OverpassProvider struct {
	endpoint string
	client   *http.Client
}

func NewOverpassProvider(endpoint string, timeout time.Duration) *OverpassProvider {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	return &OverpassProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type overpassElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

func (p *OverpassProvider) FetchGraph(ctx context.Context, centerLat, centerLon, radiusM float64, networkType string) (*datastructure.Graph, error) {
	switch networkType {
	case datastructure.NetworkWalk, datastructure.NetworkDrive:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetworkType, networkType)
	}

	query := fmt.Sprintf(
		`[out:json][timeout:60];way(around:%.0f,%.6f,%.6f)["highway"];(._;>;);out body;`,
		radiusM, centerLat, centerLon,
	)

	form := url.Values{"data": []string{query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Printf("overpass fetch: center=(%.5f, %.5f) radius=%.0fm network=%s",
		centerLat, centerLon, radiusM, networkType)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass status %d: %s", resp.StatusCode, string(body))
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("overpass decode: %w", err)
	}

	nodes := make(map[int64]rawNode)
	ways := make([]rawWay, 0)
	for _, el := range decoded.Elements {
		switch el.Type {
		case "node":
			nodes[el.ID] = rawNode{ID: el.ID, Lat: el.Lat, Lon: el.Lon}
		case "way":
			ways = append(ways, rawWay{ID: el.ID, NodeIDs: el.Nodes, Tags: el.Tags})
		}
	}

	return buildGraph(networkType, nodes, ways)
}
