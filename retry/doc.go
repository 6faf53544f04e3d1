// Package retry wraps failure-prone operations with classified retries,
// exponential backoff, and fallback-strategy escalation.
//
// Each operation runs under an opaque operation identifier. The
// coordinator keeps a per-identifier attempt counter in an injectable
// AttemptStore — owned by the caller's session, not process-wide — and
// walks the state machine
//
//	Idle → Attempting → {Succeeded | Retrying → Attempting | Exhausted → (Fallback | Fail)}
//
// Whether a failure is retried depends on the error kind: memory
// pressure retries at most twice, render-time overruns once,
// configuration and permission errors never, everything else up to the
// global three-attempt cap. Backoff before attempt n is baseDelay·2ⁿ
// (1s, 2s, 4s) and the sleep is cancellable through the context.
//
// On exhaustion the coordinator either fails with an *ExhaustedError
// or, when the caller supplied a fallback strategy, signals it with a
// *FallbackError. The coordinator never executes a fallback itself;
// the calling feature reconfigures and re-invokes the whole operation
// under a fresh identifier.
package retry
