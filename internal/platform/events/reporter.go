package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EntryFailure describes one resource that could not be synced.
type EntryFailure struct {
	ResourceID   string          `json:"resourceId"`
	ResourceType string          `json:"resourceType"`
	FHIRResource json.RawMessage `json:"fhirResource,omitempty"`
	ErrorReason  string          `json:"errorReason"`
}

// BundleFailure is published when a whole payload is rejected before any
// entry could be processed.
type BundleFailure struct {
	ID          string          `json:"id"`
	Timestamp   string          `json:"timestamp"`
	FHIRPayload json.RawMessage `json:"fhirPayload,omitempty"`
	Errors      []string        `json:"errors"`
}

// Reporter publishes failure events so a downstream consumer can retry or
// alert. Publishing is best effort; the pipeline never blocks on it.
type Reporter interface {
	ReportEntry(failure EntryFailure)
	ReportBundle(bundleID string, payload json.RawMessage, errs []string)
}

// NATSReporter publishes failures to two subjects: one for rejected bundles
// (dead letters) and one for individual resources.
type NATSReporter struct {
	conn          *nats.Conn
	dlqSubject    string
	failedSubject string
	log           zerolog.Logger
}

func NewNATSReporter(conn *nats.Conn, dlqSubject, failedSubject string, log zerolog.Logger) *NATSReporter {
	return &NATSReporter{
		conn:          conn,
		dlqSubject:    dlqSubject,
		failedSubject: failedSubject,
		log:           log.With().Str("component", "failure_reporter").Logger(),
	}
}

func (r *NATSReporter) ReportEntry(failure EntryFailure) {
	data, err := json.Marshal(failure)
	if err != nil {
		r.log.Error().Err(err).Str("resource_id", failure.ResourceID).Msg("encode entry failure")
		return
	}
	if err := r.conn.Publish(r.failedSubject, data); err != nil {
		r.log.Error().Err(err).
			Str("subject", r.failedSubject).
			Str("resource_id", failure.ResourceID).
			Msg("publish entry failure")
		return
	}
	r.log.Debug().
		Str("resource_id", failure.ResourceID).
		Str("resource_type", failure.ResourceType).
		Msg("entry failure published")
}

func (r *NATSReporter) ReportBundle(bundleID string, payload json.RawMessage, errs []string) {
	msg := BundleFailure{
		ID:          bundleID,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		FHIRPayload: payload,
		Errors:      errs,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error().Err(err).Str("bundle_id", bundleID).Msg("encode bundle failure")
		return
	}
	if err := r.conn.Publish(r.dlqSubject, data); err != nil {
		r.log.Error().Err(err).
			Str("subject", r.dlqSubject).
			Str("bundle_id", bundleID).
			Msg("publish bundle failure")
		return
	}
	r.log.Debug().Str("bundle_id", bundleID).Int("errors", len(errs)).Msg("bundle failure published")
}

// NopReporter drops all failures. Used in tests and when NATS is disabled.
type NopReporter struct{}

func (NopReporter) ReportEntry(EntryFailure)                      {}
func (NopReporter) ReportBundle(string, json.RawMessage, []string) {}
