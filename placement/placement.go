package placement

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"placement-go/types"
	"placement-go/util"
)

// Placement is an ordered collection of processors. Every metric is derived
// from the processors on each call.
type Placement struct {
	opts       *Options
	processors []*Processor
}

func NewPlacement(setOpts ...SetOption) *Placement {
	opts := defaultOptions()
	for _, setOpt := range setOpts {
		setOpt(opts)
	}
	return &Placement{
		opts:       opts,
		processors: make([]*Processor, 0),
	}
}

// AddProcessor appends processor. A nil processor is ignored.
func (p *Placement) AddProcessor(processor *Processor) {
	if processor == nil {
		log.Warn("ignoring nil processor")
		return
	}
	p.processors = append(p.processors, processor)
}

func (p *Placement) Processors() []*Processor {
	return slices.Clone(p.processors)
}

func (p *Placement) MedianPolicy() MedianPolicy {
	return p.opts.medianPolicy
}

func (p *Placement) JobsCount() int {
	return util.Sum(func(processor *Processor) int {
		return len(processor.jobs)
	}, p.processors...)
}

// Cost is the sum over processors of their peak memory usage.
func (p *Placement) Cost() types.Memory {
	return util.Sum(func(processor *Processor) types.Memory {
		return processor.PeakMemoryUsage()
	}, p.processors...)
}

// MakeSpan is the time at which the last processor finishes, 0 when there is no work.
func (p *Placement) MakeSpan() types.Duration {
	return util.Max(func(processor *Processor) types.Duration {
		return processor.TotalComputationTime()
	}, p.processors...)
}

// Equals is order sensitive: both placements must hold equal processors at the same positions.
func (p *Placement) Equals(that *Placement) bool {
	if p == nil || that == nil {
		return p == that
	}
	if len(p.processors) != len(that.processors) {
		return false
	}
	for i, processor := range p.processors {
		if !processor.Equals(that.processors[i]) {
			return false
		}
	}
	return true
}

// Validate collects every invalid time limit and job across all processors.
func (p *Placement) Validate() error {
	var result *multierror.Error
	for idx, processor := range p.processors {
		for _, err := range processor.validate() {
			result = multierror.Append(result, errors.Wrapf(err, "processor %d", idx))
		}
	}
	return result.ErrorOrNil()
}

func (p *Placement) PrettyExpose() interface{} {
	processors := make([]interface{}, 0, len(p.processors))
	for _, processor := range p.processors {
		processors = append(processors, processor.PrettyExpose())
	}
	return struct {
		MedianPolicy string
		Cost         types.Memory
		MakeSpan     types.Duration
		Processors   []interface{}
	}{
		p.opts.medianPolicy.String(), p.Cost(), p.MakeSpan(), processors,
	}
}
