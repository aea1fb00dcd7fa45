package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsEmitter publishes custom metrics to a CloudWatch namespace.
type MetricsEmitter struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetricsEmitter returns an emitter writing into namespace.
func NewMetricsEmitter(cw CloudWatchAPI, namespace string) *MetricsEmitter {
	return &MetricsEmitter{CloudWatch: cw, Namespace: namespace, nowFunc: time.Now}
}

// PutPointsAwarded records the score computed for one receipt, dimensioned by retailer.
func (e *MetricsEmitter) PutPointsAwarded(ctx context.Context, retailer string, points int64) error {
	_, err := e.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &e.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("PointsAwarded"),
				Timestamp:  sdkaws.Time(e.nowFunc().UTC()),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(float64(points)),
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("Retailer"), Value: awsString(retailer)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
