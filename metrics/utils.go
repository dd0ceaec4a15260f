package metrics

import (
	"github.com/pkg/errors"

	"placement-go/placement"
	"placement-go/types"
)

func execution(p *placement.Placement) *Execution {
	undefined := make(map[string]string)
	e := &Execution{
		Cost:            int(p.Cost()),
		MakeSpan:        int(p.MakeSpan()),
		JobsCount:       p.JobsCount(),
		ProcessorsCount: len(p.Processors()),
	}
	mean, err := p.MeanFlowTime()
	e.MeanFlowTime = definedOrRecord(placement.MetricMeanFlowTime, mean, err, undefined)
	median, err := p.MedianFlowTime()
	e.MedianFlowTime = definedOrRecord(placement.MetricMedianFlowTime, median, err, undefined)
	if len(undefined) > 0 {
		e.UndefinedMetrics = undefined
	}
	return e
}

func definedOrRecord(metric string, value float64, err error, undefined map[string]string) *float64 {
	if err == nil {
		return &value
	}
	var undefinedErr *types.ErrUndefinedMetric
	if errors.As(err, &undefinedErr) {
		undefined[metric] = undefinedErr.Message
	} else {
		undefined[metric] = err.Error()
	}
	return nil
}

func packProcessor(idx int, processor *placement.Processor) *Processor {
	scheduled := processor.ScheduledJobs()
	jobs := make([]*Job, 0, len(scheduled))
	completion := types.Duration(0)
	for _, job := range scheduled {
		completion += job.ExecutionTime()
		jobs = append(jobs, &Job{
			Name:          string(job.JobName()),
			ExecutionTime: int(job.ExecutionTime()),
			MemoryUsage:   int(job.MemoryUsage()),
			FlowTime:      int(completion),
		})
	}
	return &Processor{
		Index:                idx,
		TimeLimit:            int(processor.TimeLimit()),
		TotalComputationTime: int(processor.TotalComputationTime()),
		RemainingCapacity:    int(processor.RemainingCapacity()),
		Utilization:          utilization(processor),
		PeakMemoryUsage:      int(processor.PeakMemoryUsage()),
		Jobs:                 jobs,
	}
}

// utilization is 0 for a processor without a positive time limit.
func utilization(processor *placement.Processor) float64 {
	if processor.TimeLimit() <= 0 {
		return 0
	}
	return float64(processor.TotalComputationTime()) / float64(processor.TimeLimit())
}
