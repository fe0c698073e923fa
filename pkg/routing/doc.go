// Package routing implements provider selection and failover for chat
// completions.
//
// A request is resolved in three stages: the conversation's affinity
// provider (the one that last succeeded for it), a small set of similar
// providers from the same vendor family when the affinity provider
// fails, and finally the general pool of eligible providers with the
// free tier shuffled ahead of the paid tier. Each candidate gets a
// bounded number of attempts, one rotated model per attempt.
//
// Failed attempts feed a per-provider failure tracker; a provider with
// enough recent failures is temporarily excluded from all pools. There
// is no timed retry anywhere: immediate failover across alternatives
// substitutes for it.
//
// Cancellation is checked before resolution, before every call, and
// after every call. A cancelled request propagates immediately without
// recording a provider failure and without trying further candidates.
package routing
