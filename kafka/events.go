package kafka

import "time"

// OutflowRegisteredEvent is emitted after an antibiogram panel is dispensed
// and all of its antibiotics were decremented
type OutflowRegisteredEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	AntibiogramID uint      `json:"antibiograma_id"`
	Units         int       `json:"unidades"`
	Antibiotics   []string  `json:"antibioticos"`
	Timestamp     time.Time `json:"timestamp"`
}

// LowStockItem describes one antibiotic at or below its minimum threshold
type LowStockItem struct {
	Code     string `json:"codigo"`
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
	MinStock int    `json:"stock_minimo"`
}

// LowStockAlertEvent is emitted when the low-stock view is not empty
type LowStockAlertEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Items     []LowStockItem `json:"items"`
	Timestamp time.Time      `json:"timestamp"`
}

// Event types
const (
	EventTypeOutflowRegistered = "stock.outflow_registered"
	EventTypeLowStockAlert     = "stock.low_stock"
)

// Kafka topics
const (
	TopicStockOutflows = "stock-outflows"
	TopicStockAlerts   = "stock-alerts"
)
