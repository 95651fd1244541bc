package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	esteiraOficios = "esteira_oficios"

	documentsCapturedTotal = "documents_captured_total"
	captureRunsTotal       = "capture_runs_total"
	classificationsTotal   = "classifications_total"
	protocolActionsTotal   = "protocol_actions_total"
	DocumentStatusCount    = "document_status_count"
	pipelineGatePaused     = "pipeline_gate_paused"

	captureResultLabel        = "result"
	classificationStatusLabel = "status"
	protocolActionLabel       = "action"
	documentStatusLabel       = "status"
)

/**
* Metrics definition
**/
var documentsCapturedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: esteiraOficios,
		Name:      documentsCapturedTotal,
		Help:      "number of documents ingested from the mail relay, partitioned by result",
	},
	[]string{captureResultLabel},
)

var captureRunsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: esteiraOficios,
		Name:      captureRunsTotal,
		Help:      "number of capture jobs started",
	},
)

var classificationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: esteiraOficios,
		Name:      classificationsTotal,
		Help:      "number of classifier verdicts, partitioned by resulting status",
	},
	[]string{classificationStatusLabel},
)

var protocolActionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: esteiraOficios,
		Name:      protocolActionsTotal,
		Help:      "number of protocol records created, partitioned by action",
	},
	[]string{protocolActionLabel},
)

var documentStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: esteiraOficios,
		Name:      DocumentStatusCount,
		Help:      "metrics to record the number of documents in each status",
	},
	[]string{documentStatusLabel},
)

var pipelineGatePausedMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: esteiraOficios,
		Name:      pipelineGatePaused,
		Help:      "1 when the validation pipeline gate is paused, 0 otherwise",
	},
)

func IncreaseDocumentsCapturedMetric(result string) {
	documentsCapturedTotalMetric.With(prometheus.Labels{captureResultLabel: result}).Inc()
}

func IncreaseCaptureRunsMetric() {
	captureRunsTotalMetric.Inc()
}

func IncreaseClassificationsMetric(status string) {
	classificationsTotalMetric.With(prometheus.Labels{classificationStatusLabel: status}).Inc()
}

func IncreaseProtocolActionsMetric(action string) {
	protocolActionsTotalMetric.With(prometheus.Labels{protocolActionLabel: action}).Inc()
}

func UpdateDocumentStatusCountMetric(status string, count int) {
	documentStatusCountMetric.With(prometheus.Labels{documentStatusLabel: status}).Set(float64(count))
}

func UpdatePipelineGateMetric(paused bool) {
	if paused {
		pipelineGatePausedMetric.Set(1)
		return
	}
	pipelineGatePausedMetric.Set(0)
}

type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	prometheus.MustRegister(documentsCapturedTotalMetric)
	prometheus.MustRegister(captureRunsTotalMetric)
	prometheus.MustRegister(classificationsTotalMetric)
	prometheus.MustRegister(protocolActionsTotalMetric)
	prometheus.MustRegister(documentStatusCountMetric)
	prometheus.MustRegister(pipelineGatePausedMetric)
	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}
