// Package audio models the waveforms the dubbing pipeline manipulates: mono
// PCM clips decoded from collaborator WAV output, the rate-scaling time
// stretch that fits synthesized speech into its transcript slot, and the
// silent timeline track that clips are overlaid onto.
//
// The time stretch deliberately changes pitch: it reinterprets the samples at
// a scaled rate and resamples, matching the behaviour the rest of the system
// was tuned against. A pitch-preserving algorithm would be a behaviour change,
// not a drop-in improvement.
package audio
