package cmd

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"placement-go/config"
	"placement-go/metrics"
	"placement-go/placement"
	"placement-go/types"
	"placement-go/util"
)

func exampleCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Report metrics for the built-in example placements.",
		Long: `Builds a few hand-made placements, saves a report of their cost, makespan
and flow time metrics to the report directory and logs a summary of each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printMetrics, err := cmd.Flags().GetBool("metrics")
			if err != nil {
				return err
			}
			return runExample(cmd, cfg, printMetrics)
		},
	}
	cmd.Flags().Bool("metrics", false, "Print the prometheus exposition of every placement.")
	return cmd
}

func runExample(cmd *cobra.Command, cfg *config.Config, printMetrics bool) error {
	placements := ExamplePlacements(cfg.MedianPolicy())
	for _, np := range placements {
		if err := np.Placement.Validate(); err != nil {
			log.WithField("placement", np.Name).Warnf("placement is not valid: %s", err)
		}
		log.WithField("placement", np.Name).Debugf("placement:\n%s", util.Pretty(np.Placement))
	}

	reports, err := metrics.GenerateReports(cmd.Context(), placements)
	if err != nil {
		return err
	}
	if _, err := metrics.SaveReports(cfg.Report.Dir, cfg.ReportFormat(), reports); err != nil {
		return err
	}
	for _, report := range reports {
		logReport(report)
	}

	if printMetrics {
		return writeMetrics(cmd, placements)
	}
	return nil
}

func logReport(report *metrics.Report) {
	fields := log.Fields{
		"placement":  report.PlacementName,
		"processors": report.Execution.ProcessorsCount,
		"jobs":       report.Execution.JobsCount,
		"cost":       report.Execution.Cost,
		"makespan":   report.Execution.MakeSpan,
	}
	if report.Execution.MeanFlowTime != nil {
		fields["meanFlowTime"] = *report.Execution.MeanFlowTime
	}
	if report.Execution.MedianFlowTime != nil {
		fields["medianFlowTime"] = *report.Execution.MedianFlowTime
	}
	for metric, reason := range report.Execution.UndefinedMetrics {
		fields[metric] = "undefined: " + reason
	}
	log.WithFields(fields).Info("placement metrics")
}

func writeMetrics(cmd *cobra.Command, placements []metrics.NamedPlacement) error {
	watched := make([]metrics.NamedSyncPlacement, 0, len(placements))
	for _, np := range placements {
		watched = append(watched, metrics.NamedSyncPlacement{
			Name:      np.Name,
			Placement: placement.NewSyncPlacement(np.Placement),
		})
	}
	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics.NewPlacementCollector(watched...)); err != nil {
		return errors.Wrap(err, "registering placement collector")
	}
	mfs, err := registry.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering placement metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// ExamplePlacements builds the placements reported by the example command.
// Jobs that do not fit are offered anyway to show the admission gate at work.
func ExamplePlacements(policy placement.MedianPolicy) []metrics.NamedPlacement {
	single := placement.NewPlacement(placement.WithMedianPolicy(policy))
	single.AddProcessor(processorOf(10,
		types.NewJob("j1", 4, 5),
		types.NewJob("j2", 5, 9),
		types.NewJob("j3", 3, 1),
	))

	pair := placement.NewPlacement(placement.WithMedianPolicy(policy))
	pair.AddProcessor(processorOf(12,
		types.NewJob("j1", 6, 3),
		types.NewJob("j2", 2, 8),
		types.NewJob("j3", 3, 2),
	))
	pair.AddProcessor(processorOf(8,
		types.NewJob("j4", 5, 4),
		types.NewJob("j5", 1, 1),
		types.NewJob("j6", 4, 6),
	))

	return []metrics.NamedPlacement{
		{Name: "single", Placement: single},
		{Name: "pair", Placement: pair},
		{Name: "empty", Placement: placement.NewPlacement(placement.WithMedianPolicy(policy))},
	}
}

func processorOf(timeLimit types.Duration, jobs ...types.Job) *placement.Processor {
	processor := placement.NewProcessor(timeLimit)
	for _, job := range jobs {
		if !processor.AddJob(job) {
			log.WithField("job", job.JobName()).Infof("%s does not fit on a processor with time limit %d", job, timeLimit)
		}
	}
	return processor
}
