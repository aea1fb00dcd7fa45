package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/receipt-points/internal/aws"
	"github.com/imrishuroy/receipt-points/internal/config"
	"github.com/imrishuroy/receipt-points/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logging.GetSugaredLogger(true, "info").Fatalw("failed to load config", "error", err)
	}
	logger := logging.GetSugaredLogger(cfg.RunLocal, cfg.LogLevel)
	defer logger.Sync()

	if cfg.StoreBackend != config.BackendDynamoDB {
		logger.Fatalw("worker reads receipts from DynamoDB; set STORE_BACKEND=dynamodb", "store", cfg.StoreBackend)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatalw("failed to init aws clients", "error", err)
	}
	p := NewProcessor(clients, cfg.ReceiptsTable, cfg.MetricsNamespace, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"type":"receipt.processed","receipt_id":"local-receipt-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					MessageId: "local-1",
					Body:      testBody,
				},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.Fatalw("local handler error", "error", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
