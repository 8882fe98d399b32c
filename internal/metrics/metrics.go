package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal counts classifications served, labeled by outcome.
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diabeto_predictions_total",
		Help: "Number of classifications served, by result.",
	}, []string{"result"})

	// ModelUnavailableTotal counts add-patient requests rejected because the
	// classifier never loaded.
	ModelUnavailableTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diabeto_model_unavailable_total",
		Help: "Requests rejected because the prediction model is unavailable.",
	})

	// AuthFailuresTotal counts rejected logins and unauthenticated requests.
	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diabeto_auth_failures_total",
		Help: "Authentication failures, by kind.",
	}, []string{"kind"})
)
