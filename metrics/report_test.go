package metrics_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"sigs.k8s.io/yaml"

	"placement-go/metrics"
	"placement-go/placement"
	"placement-go/types"
)

func examplePlacement(setOpts ...placement.SetOption) *placement.Placement {
	p := placement.NewPlacement(setOpts...)
	processor := placement.NewProcessor(10)
	Expect(processor.AddJob(types.NewJob("b", 5, 9))).To(BeTrue())
	Expect(processor.AddJob(types.NewJob("a", 4, 5))).To(BeTrue())
	Expect(processor.AddJob(types.NewJob("c", 3, 1))).To(BeFalse())
	p.AddProcessor(processor)
	return p
}

var _ = Describe("GenerateReport", func() {
	Context("with a single loaded processor", func() {
		It("should report aggregates and both flow time metrics", func() {
			report := metrics.GenerateReport("example", examplePlacement())

			Expect(report.ID).NotTo(BeEmpty())
			Expect(report.PlacementName).To(Equal("example"))
			Expect(report.MedianPolicy).To(Equal("standard"))
			Expect(report.Execution.Cost).To(Equal(9))
			Expect(report.Execution.MakeSpan).To(Equal(9))
			Expect(report.Execution.JobsCount).To(Equal(2))
			Expect(report.Execution.ProcessorsCount).To(Equal(1))
			Expect(report.Execution.MeanFlowTime).To(HaveValue(Equal(6.5)))
			Expect(report.Execution.MedianFlowTime).To(HaveValue(Equal(6.5)))
			Expect(report.Execution.UndefinedMetrics).To(BeNil())
		})

		It("should list jobs in schedule order with their flow times", func() {
			report := metrics.GenerateReport("example", examplePlacement())

			Expect(report.Processors).To(HaveLen(1))
			processor := report.Processors[0]
			Expect(processor.TimeLimit).To(Equal(10))
			Expect(processor.TotalComputationTime).To(Equal(9))
			Expect(processor.RemainingCapacity).To(Equal(1))
			Expect(processor.Utilization).To(BeNumerically("~", 0.9, 1e-9))
			Expect(processor.PeakMemoryUsage).To(Equal(9))
			Expect(processor.Jobs).To(Equal([]*metrics.Job{
				{Name: "a", ExecutionTime: 4, MemoryUsage: 5, FlowTime: 4},
				{Name: "b", ExecutionTime: 5, MemoryUsage: 9, FlowTime: 9},
			}))
		})
	})

	Context("with reference median indexing", func() {
		It("should leave the median out and record why", func() {
			report := metrics.GenerateReport("reference", examplePlacement(placement.WithMedianPolicy(placement.MedianReferenceIndexing)))

			Expect(report.MedianPolicy).To(Equal("reference"))
			Expect(report.Execution.MeanFlowTime).To(HaveValue(Equal(6.5)))
			Expect(report.Execution.MedianFlowTime).To(BeNil())
			Expect(report.Execution.UndefinedMetrics).To(HaveKeyWithValue(placement.MetricMedianFlowTime, ContainSubstring("index 2 of 2")))
		})
	})

	Context("with an empty placement", func() {
		It("should report zero cost and makespan and no flow times", func() {
			report := metrics.GenerateReport("empty", placement.NewPlacement())

			Expect(report.Processors).To(BeEmpty())
			Expect(report.Execution.Cost).To(BeZero())
			Expect(report.Execution.MakeSpan).To(BeZero())
			Expect(report.Execution.MeanFlowTime).To(BeNil())
			Expect(report.Execution.MedianFlowTime).To(BeNil())
			Expect(report.Execution.UndefinedMetrics).To(HaveLen(2))
		})

		It("should report zero utilization for a processor without capacity", func() {
			p := placement.NewPlacement()
			p.AddProcessor(placement.NewProcessor(0))
			report := metrics.GenerateReport("zero", p)
			Expect(report.Processors[0].Utilization).To(BeZero())
		})
	})
})

var _ = Describe("GenerateReports", func() {
	It("should keep the order of the placements", func() {
		reports, err := metrics.GenerateReports(context.Background(), []metrics.NamedPlacement{
			{Name: "first", Placement: examplePlacement()},
			{Name: "second", Placement: placement.NewPlacement()},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(2))
		Expect(reports[0].PlacementName).To(Equal("first"))
		Expect(reports[1].PlacementName).To(Equal("second"))
		Expect(reports[0].ID).NotTo(Equal(reports[1].ID))
	})

	It("should fail on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := metrics.GenerateReports(ctx, []metrics.NamedPlacement{{Name: "first", Placement: examplePlacement()}})
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("SaveReports", func() {
	var folder string

	BeforeEach(func() {
		var err error
		folder, err = os.MkdirTemp("", "placement-reports")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, folder)
	})

	It("should write a json file", func() {
		path, err := metrics.SaveReports(folder, metrics.FormatJSON, []*metrics.Report{metrics.GenerateReport("example", examplePlacement())})
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Dir(path)).To(Equal(folder))
		Expect(filepath.Base(path)).To(HavePrefix("placements_[example]_"))
		Expect(path).To(HaveSuffix(".json"))

		bs, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		loaded := &metrics.Reports{}
		Expect(json.Unmarshal(bs, loaded)).To(Succeed())
		Expect(loaded.Reports).To(HaveLen(1))
		Expect(loaded.Reports[0].Execution.MeanFlowTime).To(HaveValue(Equal(6.5)))
	})

	It("should write a yaml file", func() {
		path, err := metrics.SaveReports(folder, metrics.FormatYAML, []*metrics.Report{metrics.GenerateReport("empty", placement.NewPlacement())})
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(HaveSuffix(".yaml"))

		bs, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(bs)).To(ContainSubstring("placement_name: empty"))
		loaded := &metrics.Reports{}
		Expect(yaml.Unmarshal(bs, loaded)).To(Succeed())
		Expect(loaded.Reports[0].Execution.UndefinedMetrics).To(HaveKey(placement.MetricMeanFlowTime))
	})

	It("should reject an unknown format", func() {
		_, err := metrics.SaveReports(folder, metrics.Format("xml"), nil)
		var invalid *types.ErrInvalidArgument
		Expect(err).To(BeAssignableToTypeOf(invalid))
	})

	It("should fail when the folder does not exist", func() {
		_, err := metrics.SaveReports(filepath.Join(folder, "missing"), metrics.FormatJSON, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseFormat", func() {
	DescribeTable("formats",
		func(input string, expected metrics.Format, ok bool) {
			format, err := metrics.ParseFormat(input)
			if !ok {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal(expected))
		},
		Entry("json", "json", metrics.FormatJSON, true),
		Entry("upper case yaml", "YAML", metrics.FormatYAML, true),
		Entry("unknown", "toml", metrics.Format(""), false),
	)
})
