// Package api provides the client for the Rotman Interactive Trader (RIT)
// REST API.
//
// The RIT client application serves the API on localhost:9999 by default:
//
//	http://localhost:9999/v1/case
//
// Every request carries the X-API-Key header. Responses are JSON documents
// returned as jsonview values. When the server rate-limits a call it answers
// with an error document holding a "wait" field (seconds); under the
// WaitAndRetry policy the client sleeps that long and sends the same request
// again, under FailFast the *Failure is returned to the caller.
package api
