package kafka

import "time"

// Stock operations carried on audit events. Restock and release share
// storage semantics; the operation tag is what tells them apart.
const (
	OperationPurchase = "purchase"
	OperationRestock  = "restock"
	OperationRelease  = "release"
)

// Event types
const (
	EventTypeStockChanged = "inventory.stock_changed"
)

// Kafka topics
const (
	TopicStockChanged = "stock-changed"
)

// StockChangedEvent records a successful inventory operation for the
// audit trail.
type StockChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SweetID   string    `json:"sweet_id"`
	SweetName string    `json:"sweet_name"`
	Operation string    `json:"operation"`
	Amount    int       `json:"amount"`
	Quantity  int       `json:"quantity"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
