package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	"placement-go/placement"
	"placement-go/types"
	"placement-go/util"
)

type Format string

const (
	FormatJSON = Format("json")
	FormatYAML = Format("yaml")
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", &types.ErrInvalidArgument{Name: "format", Value: s, Message: "expected json or yaml"}
	}
}

type Reports struct {
	GeneratedAt time.Time `json:"generated_at"`
	Reports     []*Report `json:"reports"`
}

type Report struct {
	ID            string       `json:"id"`
	PlacementName string       `json:"placement_name"`
	MedianPolicy  string       `json:"median_policy"`
	Processors    []*Processor `json:"processors"`
	Execution     *Execution   `json:"execution"`
}

type Processor struct {
	Index                int     `json:"index"`
	TimeLimit            int     `json:"time_limit"`
	TotalComputationTime int     `json:"total_computation_time"`
	RemainingCapacity    int     `json:"remaining_capacity"`
	Utilization          float64 `json:"utilization"`
	PeakMemoryUsage      int     `json:"peak_memory_usage"`
	Jobs                 []*Job  `json:"jobs"`
}

// Job is listed in schedule order. FlowTime is its completion time on its processor.
type Job struct {
	Name          string `json:"name"`
	ExecutionTime int    `json:"execution_time"`
	MemoryUsage   int    `json:"memory_usage"`
	FlowTime      int    `json:"flow_time"`
}

type Execution struct {
	Cost           int      `json:"cost"`
	MakeSpan       int      `json:"make_span"`
	MeanFlowTime   *float64 `json:"mean_flow_time,omitempty"`
	MedianFlowTime *float64 `json:"median_flow_time,omitempty"`
	// UndefinedMetrics maps a metric left out above to the reason it has no value.
	UndefinedMetrics map[string]string `json:"undefined_metrics,omitempty"`
	JobsCount        int               `json:"jobs_count"`
	ProcessorsCount  int               `json:"processors_count"`
}

type NamedPlacement struct {
	Name      string
	Placement *placement.Placement
}

func GenerateReport(name string, p *placement.Placement) *Report {
	processors := p.Processors()
	packed := make([]*Processor, 0, len(processors))
	for idx, processor := range processors {
		packed = append(packed, packProcessor(idx, processor))
	}
	return &Report{
		ID:            uuid.NewString(),
		PlacementName: name,
		MedianPolicy:  p.MedianPolicy().String(),
		Processors:    packed,
		Execution:     execution(p),
	}
}

// GenerateReports builds one report per placement concurrently. The
// placements must not be modified until it returns.
func GenerateReports(ctx context.Context, placements []NamedPlacement) ([]*Report, error) {
	reports := make([]*Report, len(placements))
	g, ctx := errgroup.WithContext(ctx)
	for i, np := range placements {
		i, np := i, np
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "generating report for placement %s", np.Name)
			}
			reports[i] = GenerateReport(np.Name, np.Placement)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// SaveReports writes all reports into a single file under folder and returns its path.
func SaveReports(folder string, format Format, reports []*Report) (string, error) {
	bundle := &Reports{
		GeneratedAt: time.Now(),
		Reports:     reports,
	}
	var bs []byte
	var err error
	switch format {
	case FormatJSON:
		bs, err = json.MarshalIndent(bundle, "", "\t")
	case FormatYAML:
		bs, err = yaml.Marshal(bundle)
	default:
		return "", &types.ErrInvalidArgument{Name: "format", Value: format, Message: "expected json or yaml"}
	}
	if err != nil {
		return "", errors.Wrapf(err, "marshalling reports as %s", format)
	}
	filePath := filepath.Join(folder, generateFileName(bundle, format))
	if err := os.WriteFile(filePath, bs, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing reports to %s", filePath)
	}
	log.WithField("path", filePath).WithField("reports", len(reports)).Info("generated placement report")
	return filePath, nil
}

func generateFileName(bundle *Reports, format Format) string {
	datetime := bundle.GeneratedAt.Format("01-02_15-04-05")
	names := make([]string, 0, len(bundle.Reports))
	for _, report := range bundle.Reports {
		names = append(names, report.PlacementName)
	}
	return fmt.Sprintf("placements_%s_%s.%s", util.StringSliceJoinWith(names, "_"), datetime, format)
}
