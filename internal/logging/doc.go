// Package logging provides the worker's structured logging layer on top of
// log/slog.
//
// It exposes typed attribute constructors, standardized field keys shared by
// the pipeline and the collaborator clients (component, job_id, stage,
// correlation_id), a human-oriented console handler, a JSON handler for
// machine consumption, and helpers that derive logger fields from a request
// context.
package logging
