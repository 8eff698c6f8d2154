package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics emits operational metrics to CloudWatch. A nil client disables
// emission, which keeps local development quiet.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a new metrics emitter
func NewMetrics(client *cloudwatch.Client, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Count emits a count metric with optional dimensions
func (m *Metrics) Count(ctx context.Context, name string, value float64, dimensions map[string]string) {
	m.put(ctx, name, value, types.StandardUnitCount, dimensions)
}

// Duration emits a millisecond duration metric
func (m *Metrics) Duration(ctx context.Context, name string, d time.Duration, dimensions map[string]string) {
	m.put(ctx, name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Dimensions: dims,
				Timestamp:  aws.Time(time.Now()),
			},
		},
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to emit metric",
			zap.String("metric", name),
			zap.Error(err),
		)
	}
}
