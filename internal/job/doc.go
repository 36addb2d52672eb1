// Package job defines the dubbing job domain types: the immutable job
// descriptor consumed from the intake queue, the externally reported status
// lifecycle, and the transcript segment model produced by speech recognition.
package job
