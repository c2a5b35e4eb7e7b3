// Package render defines the sink boundary the probing engine reports
// through, plus the shipped sink implementations: an in-memory status board,
// a structured-log sink and a WebSocket broadcast sink.
package render
