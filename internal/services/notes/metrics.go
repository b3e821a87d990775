package notes

import "github.com/prometheus/client_golang/prometheus"

// Collectors exposes board state as Prometheus metrics. hub may be nil.
func Collectors(store *Store, hub *Hub) []prometheus.Collector {
	cs := []prometheus.Collector{
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "board_active_notes",
				Help: "Number of notes on the board",
			},
			func() float64 {
				active, _ := store.Counts()
				return float64(active)
			},
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "board_trashed_notes",
				Help: "Number of notes in the trash",
			},
			func() float64 {
				_, trashed := store.Counts()
				return float64(trashed)
			},
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Name: "board_expired_notes_total",
				Help: "Trashed notes removed by the expiration sweep",
			},
			func() float64 { return float64(store.ExpiredTotal()) },
		),
	}

	if hub != nil {
		cs = append(cs,
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "board_stream_subscribers",
					Help: "Open WebSocket event streams",
				},
				func() float64 {
					subs, _ := hub.Stats()
					return float64(subs)
				},
			),
			prometheus.NewCounterFunc(
				prometheus.CounterOpts{
					Name: "board_stream_dropped_events_total",
					Help: "Events dropped because a stream outbox was full",
				},
				func() float64 {
					_, dropped := hub.Stats()
					return float64(dropped)
				},
			),
		)
	}

	return cs
}
