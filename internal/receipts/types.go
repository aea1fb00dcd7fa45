package receipts

import "time"

// Item is a single purchased line on a receipt.
type Item struct {
	ShortDescription string `json:"shortDescription" dynamodbav:"short_description" validate:"required,description"`
	Price            string `json:"price" dynamodbav:"price" validate:"required,amount"`
}

// Receipt is the payload accepted by POST /receipts/process.
// Money, date and time fields stay strings so they are stored exactly as received.
type Receipt struct {
	Retailer     string `json:"retailer" dynamodbav:"retailer" validate:"required,retailer"`
	PurchaseDate string `json:"purchaseDate" dynamodbav:"purchase_date" validate:"required,datetime=2006-01-02"`
	PurchaseTime string `json:"purchaseTime" dynamodbav:"purchase_time" validate:"required,datetime=15:04"`
	Total        string `json:"total" dynamodbav:"total" validate:"required,amount"`
	Items        []Item `json:"items" dynamodbav:"items" validate:"required,min=1,dive"`
}

// Record is a stored receipt keyed by its generated id.
type Record struct {
	ID        string    `dynamodbav:"receipt_id"` // PK
	Receipt   Receipt   `dynamodbav:"receipt"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

// ProcessResponse is returned by POST /receipts/process.
type ProcessResponse struct {
	ID string `json:"id"`
}

// PointsResponse is returned by GET /receipts/:id/points.
type PointsResponse struct {
	Points int64 `json:"points"`
}

// EventReceiptProcessed is published after a receipt is stored.
const EventReceiptProcessed = "receipt.processed"

// Event is the payload sent from API -> SQS -> worker.
type Event struct {
	Type          string `json:"type"`
	ReceiptID     string `json:"receipt_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
