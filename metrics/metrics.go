// Package metrics holds the prometheus counters exported by the config
// store and the entity assembler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the registry every collector below is registered with.
	Registry = prometheus.NewRegistry()

	ConfigLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "spacegame",
		Name:      "config_loads_total",
		Help:      "Config documents read and parsed from the config root.",
	})

	ConfigCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "spacegame",
		Name:      "config_cache_hits_total",
		Help:      "Config loads served from the document cache.",
	})

	EntityBuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spacegame",
		Name:      "entity_builds_total",
		Help:      "Top-level entity builds by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(ConfigLoads, ConfigCacheHits, EntityBuilds)
}

// BuildSucceeded and BuildFailed count one top-level Build call.
func BuildSucceeded() { EntityBuilds.WithLabelValues("ok").Inc() }
func BuildFailed() { EntityBuilds.WithLabelValues("error").Inc() }

// Handler serves the registry in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
