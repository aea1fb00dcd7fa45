package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/imrishuroy/receipt-points/internal/receipts"
)

type mockSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, in)
	return &sqs.SendMessageOutput{}, nil
}

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestPublishReceiptProcessed(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "http://localhost:4566/000000000000/receipts")

	err := p.PublishReceiptProcessed(context.Background(), receipts.Event{ReceiptID: "r1", CorrelationID: "req-1"})
	if err != nil {
		t.Fatalf("publish error: %v", err)
	}
	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.QueueUrl != p.QueueURL {
		t.Fatalf("queue url mismatch: %s", *in.QueueUrl)
	}

	var ev receipts.Event
	if err := json.Unmarshal([]byte(*in.MessageBody), &ev); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if ev.Type != receipts.EventReceiptProcessed || ev.ReceiptID != "r1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if got := *in.MessageAttributes["receipt_id"].StringValue; got != "r1" {
		t.Fatalf("receipt_id attribute mismatch: %s", got)
	}
	if got := *in.MessageAttributes["correlation_id"].StringValue; got != "req-1" {
		t.Fatalf("correlation_id attribute mismatch: %s", got)
	}
}

func TestPublishReceiptProcessed_SendError(t *testing.T) {
	p := NewPublisher(&mockSQS{err: errors.New("queue does not exist")}, "q")

	if err := p.PublishReceiptProcessed(context.Background(), receipts.Event{ReceiptID: "r1"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPutPointsAwarded(t *testing.T) {
	mock := &mockCloudWatch{}
	e := NewMetricsEmitter(mock, "ReceiptPoints")

	if err := e.PutPointsAwarded(context.Background(), "Target", 28); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.inputs))
	}
	d := mock.inputs[0].MetricData[0]
	if *d.MetricName != "PointsAwarded" || *d.Value != 28 {
		t.Fatalf("unexpected datum %+v", d)
	}
	if *d.Dimensions[0].Value != "Target" {
		t.Fatalf("retailer dimension mismatch")
	}
}
