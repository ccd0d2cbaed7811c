// Package response analyzes rendered graph output offline: impulse
// capture, FFT magnitude response and windowed tail energy. It backs the
// verification of filter and reverb behavior and is not part of the
// real-time pull path.
package response
