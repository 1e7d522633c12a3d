package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	answerHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "answerdb_answer_hits_total",
		Help: "Answers served from a stored record, by tier.",
	}, []string{"tier"})

	answerMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "answerdb_answer_misses_total",
		Help: "Queries that required a model provider call.",
	})

	promotions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "answerdb_promotions_total",
		Help: "Fast-path cache records written after crossing the threshold.",
	})

	providerCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "answerdb_provider_calls_total",
		Help: "Model provider invocations by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(answerHits, answerMisses, promotions, providerCalls)
}
