package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	bookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	seatCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_cancellations_total",
			Help: "Seats released through cancellation",
		},
	)

	claimConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_claim_conflicts_total",
			Help: "Booking attempts lost to a racing claim",
		},
	)

	seatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_booked_total",
			Help: "Seats successfully reserved",
		},
	)
)

func ObserveBooking(outcome string, seats int) {
	bookings.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		seatsBooked.Add(float64(seats))
	}
}

func ObserveClaimConflict() {
	claimConflicts.Inc()
}

func ObserveCancellation() {
	seatCancellations.Inc()
}

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
