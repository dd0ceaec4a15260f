package placement

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"placement-go/types"
	"placement-go/util"
)

const (
	MetricMeanFlowTime   = "meanFlowTime"
	MetricMedianFlowTime = "medianFlowTime"
)

// FlowTimes returns the completion time of every job, measured from the start
// of its own processor. Processors are visited in placement order and each
// processor's jobs in ScheduledJobs order.
func (p *Placement) FlowTimes() []types.Duration {
	flowTimes := make([]types.Duration, 0, p.JobsCount())
	for _, processor := range p.processors {
		completion := types.Duration(0)
		for _, job := range processor.ScheduledJobs() {
			completion += job.ExecutionTime()
			flowTimes = append(flowTimes, completion)
		}
	}
	return flowTimes
}

// MeanFlowTime returns a *types.ErrUndefinedMetric when no processor holds a job.
func (p *Placement) MeanFlowTime() (float64, error) {
	flowTimes := p.FlowTimes()
	if len(flowTimes) == 0 {
		return 0, errors.WithStack(&types.ErrUndefinedMetric{
			Metric:  MetricMeanFlowTime,
			Message: "placement has no jobs",
		})
	}
	return util.Avg(flowTimes...), nil
}

// MedianFlowTime returns a *types.ErrUndefinedMetric when no processor holds
// a job, or when MedianReferenceIndexing reads past the end of the flow times.
func (p *Placement) MedianFlowTime() (float64, error) {
	flowTimes := p.FlowTimes()
	n := len(flowTimes)
	if n == 0 {
		return 0, errors.WithStack(&types.ErrUndefinedMetric{
			Metric:  MetricMedianFlowTime,
			Message: "placement has no jobs",
		})
	}
	slices.Sort(flowTimes)
	if n%2 == 1 {
		return float64(flowTimes[n/2]), nil
	}
	lo, hi := n/2-1, n/2
	if p.opts.medianPolicy == MedianReferenceIndexing {
		lo, hi = n/2, n/2+1
		if hi >= n {
			return 0, errors.WithStack(&types.ErrUndefinedMetric{
				Metric:  MetricMedianFlowTime,
				Message: fmt.Sprintf("%s median policy reads index %d of %d flow times", p.opts.medianPolicy, hi, n),
			})
		}
	}
	return float64(flowTimes[lo]+flowTimes[hi]) / 2, nil
}
