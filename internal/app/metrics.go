package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	votesSubmitted prometheus.Counter
	votesConfirmed prometheus.Counter
	votesFailed    prometheus.Counter
	fetchFailures  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		votesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chainvote",
			Name:      "votes_submitted_total",
			Help:      "Vote transactions handed to the wallet for signing",
		}),
		votesConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chainvote",
			Name:      "votes_confirmed_total",
			Help:      "Vote transactions that reached finality",
		}),
		votesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chainvote",
			Name:      "votes_failed_total",
			Help:      "Vote submissions that failed before finality",
		}),
		fetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "chainvote",
			Name:      "object_fetch_failures_total",
			Help:      "Ledger object reads that ended in an RPC error",
		}),
	}
}
