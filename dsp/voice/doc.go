// Package voice provides polyphony management for the signal graph: a
// fixed-size voice pool with a least-recently-released reuse policy, and a
// router that splits an incoming note-event stream into per-voice gate,
// trigger, frequency and velocity control streams.
package voice
