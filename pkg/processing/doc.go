// Package processing turns raw inbound chat messages into the
// provider-agnostic message list the router sends upstream.
//
// It owns three concerns:
//
//   - Vision detection: deciding whether a request must be served by a
//     vision-capable provider, from attachments, inline data URIs and
//     structured image parts.
//   - Message shaping: dropping caller-supplied system messages,
//     injecting the configured persona as the first message, and
//     converting file attachments into two-part text+image content.
//   - Image context: a best-effort textual summary of each uploaded
//     image, produced asynchronously by a designated vision provider and
//     appended to short follow-up questions so text-only providers keep
//     continuity after an image turn.
//
// The processor never fails a request over malformed optional fields;
// missing or unusable attachment info degrades to plain text handling.
package processing
