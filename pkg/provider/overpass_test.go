package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"traceroad/pkg/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overpassFixture = `{
	"elements": [
		{"type": "node", "id": 1, "lat": -7.550, "lon": 110.770},
		{"type": "node", "id": 2, "lat": -7.550, "lon": 110.772},
		{"type": "node", "id": 3, "lat": -7.550, "lon": 110.774},
		{"type": "way", "id": 10, "nodes": [1, 2, 3], "tags": {"highway": "residential"}}
	]
}`

func TestOverpassFetchGraph(t *testing.T) {
	t.Run("decodes elements into a routable graph", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotQuery = r.FormValue("data")
			w.Write([]byte(overpassFixture))
		}))
		defer srv.Close()

		p := provider.NewOverpassProvider(srv.URL, 5*time.Second)
		g, err := p.FetchGraph(context.Background(), -7.55, 110.772, 5000, "drive")
		require.NoError(t, err)

		assert.Equal(t, 2, g.NumNodes())
		assert.Equal(t, 2, g.NumEdges())
		assert.Contains(t, gotQuery, `way(around:5000,-7.550000,110.772000)["highway"]`)
	})

	t.Run("non 200 response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		p := provider.NewOverpassProvider(srv.URL, 5*time.Second)
		_, err := p.FetchGraph(context.Background(), -7.55, 110.772, 5000, "walk")
		assert.Error(t, err)
	})

	t.Run("unknown network type fails before any request", func(t *testing.T) {
		p := provider.NewOverpassProvider("http://127.0.0.1:1", time.Second)
		_, err := p.FetchGraph(context.Background(), -7.55, 110.772, 5000, "bike")
		assert.ErrorIs(t, err, provider.ErrUnknownNetworkType)
	})

	t.Run("empty extract maps to ErrEmptyGraph", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"elements": []}`))
		}))
		defer srv.Close()

		p := provider.NewOverpassProvider(srv.URL, 5*time.Second)
		_, err := p.FetchGraph(context.Background(), -7.55, 110.772, 5000, "walk")
		assert.ErrorIs(t, err, provider.ErrEmptyGraph)
	})
}
