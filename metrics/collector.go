package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"placement-go/placement"
)

const (
	prefix = "placement_"

	placementLabel = "placement"
	processorLabel = "processor"
)

var (
	costDesc = prometheus.NewDesc(
		prefix+"cost",
		"Sum over processors of the peak job memory usage.",
		[]string{placementLabel}, nil,
	)
	makeSpanDesc = prometheus.NewDesc(
		prefix+"makespan",
		"Time at which the last processor finishes its jobs.",
		[]string{placementLabel}, nil,
	)
	meanFlowTimeDesc = prometheus.NewDesc(
		prefix+"mean_flow_time",
		"Mean job flow time. Absent while the placement has no jobs.",
		[]string{placementLabel}, nil,
	)
	medianFlowTimeDesc = prometheus.NewDesc(
		prefix+"median_flow_time",
		"Median job flow time. Absent while undefined.",
		[]string{placementLabel}, nil,
	)
	jobsDesc = prometheus.NewDesc(
		prefix+"jobs",
		"Number of jobs admitted across all processors.",
		[]string{placementLabel}, nil,
	)
	processorComputationTimeDesc = prometheus.NewDesc(
		prefix+"processor_computation_time",
		"Total execution time of the jobs on a processor.",
		[]string{placementLabel, processorLabel}, nil,
	)
	processorPeakMemoryDesc = prometheus.NewDesc(
		prefix+"processor_peak_memory",
		"Peak memory usage among the jobs on a processor.",
		[]string{placementLabel, processorLabel}, nil,
	)
	processorTimeLimitDesc = prometheus.NewDesc(
		prefix+"processor_time_limit",
		"Time capacity of a processor.",
		[]string{placementLabel, processorLabel}, nil,
	)

	allDescs = []*prometheus.Desc{
		costDesc,
		makeSpanDesc,
		meanFlowTimeDesc,
		medianFlowTimeDesc,
		jobsDesc,
		processorComputationTimeDesc,
		processorPeakMemoryDesc,
		processorTimeLimitDesc,
	}
)

// NamedSyncPlacement is a placement shared with other goroutines, exported under Name.
type NamedSyncPlacement struct {
	Name      string
	Placement *placement.SyncPlacement
}

// PlacementCollector exports the metrics of a set of placements, told apart
// by the placement label. Register one collector per registry: every
// collector describes the same metrics. Values are computed on every scrape
// while holding each placement's lock.
type PlacementCollector struct {
	placements []NamedSyncPlacement
}

func NewPlacementCollector(placements ...NamedSyncPlacement) *PlacementCollector {
	return &PlacementCollector{
		placements: placements,
	}
}

func (c *PlacementCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range allDescs {
		ch <- desc
	}
}

func (c *PlacementCollector) Collect(ch chan<- prometheus.Metric) {
	for _, np := range c.placements {
		name := np.Name
		_ = np.Placement.Do(func(p *placement.Placement) error {
			collectPlacement(ch, name, p)
			return nil
		})
	}
}

func collectPlacement(ch chan<- prometheus.Metric, name string, p *placement.Placement) {
	ch <- prometheus.MustNewConstMetric(costDesc, prometheus.GaugeValue, float64(p.Cost()), name)
	ch <- prometheus.MustNewConstMetric(makeSpanDesc, prometheus.GaugeValue, float64(p.MakeSpan()), name)
	ch <- prometheus.MustNewConstMetric(jobsDesc, prometheus.GaugeValue, float64(p.JobsCount()), name)
	if mean, err := p.MeanFlowTime(); err == nil {
		ch <- prometheus.MustNewConstMetric(meanFlowTimeDesc, prometheus.GaugeValue, mean, name)
	}
	if median, err := p.MedianFlowTime(); err == nil {
		ch <- prometheus.MustNewConstMetric(medianFlowTimeDesc, prometheus.GaugeValue, median, name)
	}
	for idx, processor := range p.Processors() {
		processorIdx := strconv.Itoa(idx)
		ch <- prometheus.MustNewConstMetric(processorComputationTimeDesc, prometheus.GaugeValue, float64(processor.TotalComputationTime()), name, processorIdx)
		ch <- prometheus.MustNewConstMetric(processorPeakMemoryDesc, prometheus.GaugeValue, float64(processor.PeakMemoryUsage()), name, processorIdx)
		ch <- prometheus.MustNewConstMetric(processorTimeLimitDesc, prometheus.GaugeValue, float64(processor.TimeLimit()), name, processorIdx)
	}
}
