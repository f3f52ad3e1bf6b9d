package domain

import "time"

// OperationType records what happened to a price in its history trail.
type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
	OperationImport OperationType = "import"
)

// PriceHistory is an append-only snapshot of a price taken on every write.
type PriceHistory struct {
	ID            string        `json:"id"`
	PriceID       string        `json:"priceId"`
	Snapshot      PriceRecord   `json:"snapshot"`
	OperationType OperationType `json:"operationType"`
	OperatedBy    string        `json:"operatedBy"`
	OperatedAt    time.Time     `json:"operatedAt"`
}
