package nlsql

import "github.com/prometheus/client_golang/prometheus"

var (
	// providerFallbacks counts requests answered by a provider other than the
	// configured primary, labeled by the provider that ultimately answered.
	providerFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_provider_fallback_total",
			Help: "Requests answered by a non-primary generation provider.",
		},
		[]string{"provider"},
	)

	// validatorRejections counts generated statements refused by the safety
	// validator.
	validatorRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_validator_rejections_total",
			Help: "Generated statements rejected by the SQL safety validator.",
		},
	)

	// correctionRetries counts correction-loop attempts across all requests.
	correctionRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_correction_retries_total",
			Help: "Syntax-correction attempts consumed by failed executions.",
		},
	)

	// answers counts completed pipeline invocations by outcome.
	answers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_answers_total",
			Help: "Completed assistant requests by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(providerFallbacks, validatorRejections, correctionRetries, answers)
}
