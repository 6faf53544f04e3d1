// Package validate gates a finished export before it is handed to the
// uploader.
//
// The validator reads real facts from the output container — duration,
// frame rate, track presence — via a small RIFF/AVI header prober
// rather than trusting the encoder's bookkeeping, then checks them
// against the configured hard thresholds. Every violation is a
// distinct, named error kind so the retry policy can branch on it; a
// generic "validation failed" would collapse the eligibility table.
package validate
