package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes by direction, for the /metrics endpoint.
var (
	pullsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boardtrack",
		Subsystem: "sync",
		Name:      "pulls_total",
		Help:      "Snapshot pulls from the remote mirror, by result.",
	}, []string{"result"})

	pushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boardtrack",
		Subsystem: "sync",
		Name:      "pushes_total",
		Help:      "Snapshot pushes to the remote mirror, by result.",
	}, []string{"result"})
)
