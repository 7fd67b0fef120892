// Package observability provides the dayplan event log, metrics derived from
// it, and alerts computed from planner state. Events are stored as JSON Lines
// and metrics are calculated on demand.
package observability
