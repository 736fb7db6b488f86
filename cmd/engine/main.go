package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"traceroad/pkg/config"
	"traceroad/pkg/kv"
	"traceroad/pkg/pipeline"
	"traceroad/pkg/provider"
	"traceroad/pkg/server/rest"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	configFile = flag.String("config", "", "optional yaml config file")
	listenAddr = flag.String("listenaddr", "", "server listen address (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	graphProvider, err := buildProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var store *kv.GraphStore
	if cfg.Cache.Dir != "" {
		db, err := badger.Open(badger.DefaultOptions(cfg.Cache.Dir))
		if err != nil {
			log.Fatal(err)
		}
		store = kv.NewGraphStore(db)
		defer store.Close()
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	pl := pipeline.New(cfg, graphProvider, store)

	rest.TraceRouter(r, pl, m)

	fmt.Printf("\nserver started at %s\n", cfg.Server.ListenAddr)

	log.Fatal(http.ListenAndServe(cfg.Server.ListenAddr, r))
}

func buildProvider(cfg *config.Config) (provider.GraphProvider, error) {
	switch cfg.Provider.Kind {
	case "overpass":
		return provider.NewOverpassProvider(cfg.Provider.OverpassURL,
			time.Duration(cfg.Provider.OverpassTimeoutSec)*time.Second), nil
	case "pbf":
		if cfg.Provider.MapFile == "" {
			return nil, fmt.Errorf("pbf provider needs provider.map_file")
		}
		return provider.NewPBFProvider(cfg.Provider.MapFile), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Provider.Kind)
	}
}
