// File: pkg/storage/gcp/metrics.go
package gcp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	monitoringpb "cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"google.golang.org/api/iterator"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const metricTimeWindow = 72 * time.Hour

// ErrMetricsNotFound indicates that the usage metrics could not be found within the queried time range
// This often happens for new buckets that haven't reported metrics yet
var ErrMetricsNotFound = errors.New("usage metrics not found in the monitoring window")

// BucketUsage reports the bucket's total stored bytes from Cloud Monitoring
func (g *GCPStorage) BucketUsage(ctx context.Context) (int64, error) {
	if g.projectID == "" {
		return -1, fmt.Errorf("a project ID is required to query bucket usage")
	}

	g.logger.Debug("Fetching GCP bucket usage metric via Monitoring API (Aggregated)")
	client, err := monitoring.NewMetricClient(ctx, g.clientOpts...)
	if err != nil {
		return -1, fmt.Errorf("failed to create monitoring client: %w", err)
	}
	defer client.Close()

	endTime := time.Now()
	startTime := endTime.Add(-metricTimeWindow)

	req := &monitoringpb.ListTimeSeriesRequest{
		Name:   fmt.Sprintf("projects/%s", g.projectID),
		Filter: fmt.Sprintf(`metric.type="storage.googleapis.com/storage/v2/total_bytes" AND resource.labels.bucket_name="%s"`, g.bucket),
		Interval: &monitoringpb.TimeInterval{
			StartTime: timestamppb.New(startTime),
			EndTime:   timestamppb.New(endTime),
		},
		Aggregation: &monitoringpb.Aggregation{
			AlignmentPeriod:    durationpb.New(metricTimeWindow),
			PerSeriesAligner:   monitoringpb.Aggregation_ALIGN_MEAN,
			CrossSeriesReducer: monitoringpb.Aggregation_REDUCE_SUM,
			GroupByFields:      []string{"resource.labels.bucket_name"},
		},
	}

	// Everything is summed into a single series, so the first response is the only one
	resp, err := client.ListTimeSeries(ctx, req).Next()
	if err == iterator.Done {
		return -1, ErrMetricsNotFound
	}
	if err != nil {
		return -1, fmt.Errorf("error getting metric data for bucket %s: %w", g.bucket, err)
	}

	if len(resp.GetPoints()) > 0 {
		return extractUsageValue(resp.GetPoints()[0].GetValue()), nil
	}

	return -1, ErrMetricsNotFound
}

func extractUsageValue(pointValue *monitoringpb.TypedValue) int64 {
	if pointValue == nil {
		return 0
	}

	switch v := pointValue.Value.(type) {
	case *monitoringpb.TypedValue_DoubleValue:
		return int64(math.Round(v.DoubleValue))
	case *monitoringpb.TypedValue_Int64Value:
		return v.Int64Value
	default:
		return 0
	}
}
