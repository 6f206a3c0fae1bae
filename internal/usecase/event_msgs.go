package usecase

import "time"

// Published on RabbitMQ after a successful handoff.
type HandoffMsg struct {
	Ref        string    `json:"ref"`
	SessionID  string    `json:"sessionId"`
	OrderType  string    `json:"orderType"`
	Items      int       `json:"items"`
	GrandTotal int64     `json:"grandTotal"`
	At         time.Time `json:"at"`
}

// Sent by the menu CMS on Kafka when a new catalog document is live.
type CatalogPublishedMsg struct {
	Version string `json:"version"`
	Source  string `json:"source"` // e.g. "cms"
}
