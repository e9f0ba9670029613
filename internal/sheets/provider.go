// Package sheets fetches published spreadsheet CSV exports over HTTP.
//
// Every dataset in the system is a Google Sheets "publish to web" CSV
// URL. The Provider abstraction keeps the rest of the service ignorant
// of where CSV text comes from, so tests and offline tooling can swap
// in canned payloads.
package sheets

import (
	"context"
	"errors"
	"time"

	stderrors "town-connect/internal/common/errors"
	"town-connect/internal/common/httpclient"
	"town-connect/internal/common/logger"
	"town-connect/internal/common/metrics"
	"town-connect/internal/common/observability"
)

// Provider returns the raw CSV text behind a published sheet URL.
type Provider interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPProvider fetches CSV over plain HTTP with a bounded timeout.
type HTTPProvider struct {
	client  *httpclient.Client
	logger  logger.Logger
	dataset string
	obs     *observability.Observability
}

// WithObservability attaches the OpenTelemetry recorder. Prometheus
// counters are always recorded; this adds the otel mirror.
func (p *HTTPProvider) WithObservability(obs *observability.Observability) *HTTPProvider {
	p.obs = obs
	return p
}

// NewHTTPProvider builds a provider for one dataset. The dataset name is
// only a metrics label; one provider instance serves any URL.
func NewHTTPProvider(timeout time.Duration, dataset string, log logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		client:  httpclient.NewClient(timeout),
		logger:  log,
		dataset: dataset,
	}
}

// Fetch downloads the CSV body. Non-200 responses and transport failures
// map to the service error taxonomy; timeouts are reported distinctly so
// operators can tell a slow sheet from a missing one.
func (p *HTTPProvider) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	body, err := p.client.Get(ctx, url)
	if err != nil {
		p.record(ctx, "error")
		if errors.Is(err, context.DeadlineExceeded) {
			return "", stderrors.NewSheetFetchTimeoutError(url)
		}
		p.logger.Warn("sheet fetch failed", map[string]interface{}{
			"dataset": p.dataset,
			"url":     url,
			"error":   err.Error(),
		})
		return "", stderrors.NewSheetFetchFailedError(url, err)
	}

	p.record(ctx, "success")
	elapsed := time.Since(start)
	metrics.SheetFetchDuration.WithLabelValues(p.dataset).Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordFetchDuration(ctx, p.dataset, elapsed)
	}

	return string(body), nil
}

func (p *HTTPProvider) record(ctx context.Context, result string) {
	metrics.SheetFetches.WithLabelValues(p.dataset, result).Inc()
	if p.obs != nil {
		p.obs.RecordFetch(ctx, p.dataset, result)
	}
}
