package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/receipt-points/internal/aws"
	"github.com/imrishuroy/receipt-points/internal/points"
	"github.com/imrishuroy/receipt-points/internal/receipts"
	"github.com/imrishuroy/receipt-points/internal/store"
)

// PointsRecorder receives the score computed for each processed receipt.
type PointsRecorder interface {
	PutPointsAwarded(ctx context.Context, retailer string, points int64) error
}

// Processor handles SQS messages and reports the score of every stored receipt.
type Processor struct {
	store    store.Store
	recorder PointsRecorder
	logger   *zap.SugaredLogger
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, receiptsTable, namespace string, logger *zap.SugaredLogger) *Processor {
	return &Processor{
		store:    store.NewDynamoStore(clients.DynamoDB, receiptsTable, nil),
		recorder: aws.NewMetricsEmitter(clients.CloudWatch, namespace),
		logger:   logger,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.Debugw("received SQS batch", "messages", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Errorw("worker error", "message_id", rec.MessageId, "error", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg receipts.Event
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Type != receipts.EventReceiptProcessed {
		p.logger.Infow("skipping event", "type", msg.Type)
		return nil
	}

	r, err := p.store.Get(ctx, msg.ReceiptID)
	if err != nil {
		return fmt.Errorf("failed to fetch receipt: %w", err)
	}
	if r == nil {
		// the API stores before publishing, so this is a misrouted or stale event
		return fmt.Errorf("receipt not found: %s", msg.ReceiptID)
	}

	score, err := points.Calculate(*r)
	if err != nil {
		return fmt.Errorf("calculate points for %s: %w", msg.ReceiptID, err)
	}

	if err := p.recorder.PutPointsAwarded(ctx, r.Retailer, score); err != nil {
		return fmt.Errorf("record points for %s: %w", msg.ReceiptID, err)
	}

	p.logger.Infow("receipt scored", "receipt_id", msg.ReceiptID, "points", score, "correlation_id", msg.CorrelationID)
	return nil
}
