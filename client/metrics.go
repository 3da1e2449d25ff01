package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchDocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "indextank_client",
			Name:      "batch_documents_total",
			Help:      "Documents sent in batch adds, by per-document outcome.",
		},
		[]string{"outcome"},
	)

	batchesEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "indextank_client",
			Name:      "batches_enqueued_total",
			Help:      "Batches accepted into the shard executor.",
		},
		[]string{"shard"},
	)

	batchEnqueueFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "indextank_client",
			Name:      "batch_enqueue_failures_total",
			Help:      "Enqueued batches whose request finally failed.",
		},
		[]string{"shard"},
	)
)

func recordBatch(br *BatchResults) {
	if br == nil {
		return
	}
	failed := br.FailedCount()
	batchDocumentsTotal.WithLabelValues("added").Add(float64(br.Len() - failed))
	batchDocumentsTotal.WithLabelValues("failed").Add(float64(failed))
}
