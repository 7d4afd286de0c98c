// Package metrics provides an observability framework for linkrouter build metrics.
//
// The package implements the Null Object pattern so components can record
// metrics without nil checks: everything defaults to NoopRecorder, and a
// Prometheus-backed Recorder is injected when metrics are enabled in the
// configuration (watch mode serves it over HTTP).
//
// Components receive a Recorder through dependency injection:
//
//	pipeline := pipeline.New(cfg, pipeline.WithRecorder(recorder))
//
// NoopRecorder methods inline to nothing, so disabled metrics cost nothing.
package metrics
