package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts allocation requests by outcome and the seats committed.
type Recorder struct {
	requests *prometheus.CounterVec
	seats    prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rooms",
			Name:      "allocation_requests_total",
			Help:      "Allocation requests by outcome.",
		}, []string{"outcome"}),
		seats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rooms",
			Name:      "allocated_seats_total",
			Help:      "Seats committed by successful allocations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.requests, r.seats)
	}
	return r
}

func (r *Recorder) ObserveAllocation(outcome string, seats int) {
	r.requests.WithLabelValues(outcome).Inc()
	if seats > 0 {
		r.seats.Add(float64(seats))
	}
}
