// Package reasoning wraps the external reasoning service used for character
// extraction, dialogue summarization, and semantic candidate matching.
//
// The HTTP client retries transient failures a fixed number of times with a
// fixed backoff; a permanent failure surfaces as an error the pipeline
// degrades into a low-confidence result, never a crash. Responses are decoded
// defensively: the first balanced JSON payload found in the raw text wins,
// surrounding prose is tolerated.
package reasoning
