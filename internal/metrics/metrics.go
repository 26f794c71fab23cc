// Package metrics exposes Prometheus counters and gauges for the
// progression service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MissionProgressEvents counts progress increments by mission kind.
var MissionProgressEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridclash",
	Name:      "mission_progress_events_total",
	Help:      "Total mission progress increments.",
}, []string{"kind"})

// MissionsCompleted counts mission completions by kind.
var MissionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridclash",
	Name:      "missions_completed_total",
	Help:      "Total missions completed.",
}, []string{"kind"})

// XPGranted counts experience points granted.
var XPGranted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gridclash",
	Name:      "xp_granted_total",
	Help:      "Total XP granted for mission completions.",
})

// RewardsClaimed counts reward claims by tier.
var RewardsClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridclash",
	Name:      "rewards_claimed_total",
	Help:      "Total rewards claimed.",
}, []string{"tier"})

// DailySelectionCacheHits counts daily selection cache hits and misses.
var DailySelectionCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gridclash",
	Name:      "daily_selection_cache_total",
	Help:      "Daily selection cache lookups by outcome.",
}, []string{"outcome"})

// WSClients tracks currently connected WebSocket clients.
var WSClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "gridclash",
	Name:      "ws_clients",
	Help:      "Connected WebSocket clients.",
})
