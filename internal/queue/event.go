// Package queue defines message payloads exchanged over the message broker.
package queue

// PNRCommittedEvent is published when an end transaction (ET/ER)
// succeeds. It carries enough for downstream consumers to log or feed
// analytics without querying the primary database.
type PNRCommittedEvent struct {
	RecordLocator string `json:"record_locator"`
	Agent         string `json:"agent"`
	Passengers    int    `json:"passengers"`
	Segments      int    `json:"segments"`
	Redisplayed   bool   `json:"redisplayed"` // true for ER, false for ET
	CommittedAt   string `json:"committed_at"`
}
