// Package pipeline drives one dubbing job from queued descriptor to uploaded
// result.
//
// The Pipeline is a sequential state machine with two concurrent elements:
// a detached heartbeat goroutine that re-reports the current progress
// snapshot every interval, and a bounded worker pool that translates,
// synthesizes, and time-stretches transcript segments in parallel. Segment
// results are collected in submission order so progress reporting and
// timeline assembly stay deterministic regardless of scheduling.
//
// Every exit path runs the same cleanup: the heartbeat is stopped and the
// job's scratch directory is removed, each step best effort.
package pipeline
