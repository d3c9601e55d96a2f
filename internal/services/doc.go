// Package services implements the dashboard's business logic between the
// HTTP handlers and the analysis pipeline.
//
// # Dataset cache
//
// DatasetCache stores loaded datasets keyed by (identity, content hash).
// The identity is the upload file name or the absolute path of a file on
// disk; the hash is the SHA-256 of its bytes. Entries are bounded in number,
// the oldest being evicted first, and may expire after a TTL. Datasets
// derived from another entry, such as the output of the negative-row
// filter, are dropped together with their source.
//
// # DatasetService
//
// DatasetService loads files into the cache, collapsing concurrent loads
// of the same key into one parse with singleflight, and runs the analyses
// on cached datasets:
//
//	entry, err := svc.Upload(ctx, "benin-malanville.csv", data)
//	if err != nil {
//		return err
//	}
//	summary, err := svc.Summary(ctx, entry.ID)
//
// Errors are internal/errors AppErrors, which the HTTP layer renders as
// problem details.
//
// # HealthService
//
// HealthService reports liveness, readiness of the data and reports
// directories, and cache statistics.
package services
