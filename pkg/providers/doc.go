// Package providers defines the provider-agnostic request/response types and
// the Caller contract implemented by each wire-protocol adapter.
//
// A Caller translates structured messages into one upstream provider's wire
// format, executes the call (buffered or streaming), and normalizes the
// result back to the generic shape. Two adapter families exist:
//
//   - openaichat: chat-completions style JSON APIs (NVIDIA NIM, Cerebras,
//     Mistral, and other OpenAI-compatible endpoints)
//   - genai: contents/parts style generative APIs (Gemini)
//
// Callers make exactly one HTTP attempt per invocation. There is no retry
// or backoff at this layer: the completion router substitutes immediate
// failover across alternative providers for timed retry.
//
// Cancellation is caller-driven through context.Context. A context that is
// already done is reported as a CancellationError before any network I/O; a
// context cancelled mid-call aborts the in-flight request. Cancellation is
// always distinguishable from provider failure so the router never fails
// over on a cancelled request.
package providers
