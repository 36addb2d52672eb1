// Package services defines shared utilities consumed by the dubbing pipeline
// and the external collaborator clients.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (not found vs external tool vs transient) uniform across
//     storage, media tooling, and the collaborator HTTP clients.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the worker.
package services
