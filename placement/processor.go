package placement

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"placement-go/types"
	"placement-go/util"
)

// Processor holds jobs in the order they were admitted. The sum of their
// execution times never exceeds timeLimit.
type Processor struct {
	timeLimit types.Duration
	jobs      []types.Job
}

// NewProcessor creates an empty processor. timeLimit is not checked here, see Validate.
func NewProcessor(timeLimit types.Duration) *Processor {
	return &Processor{
		timeLimit: timeLimit,
		jobs:      make([]types.Job, 0),
	}
}

func (p *Processor) TimeLimit() types.Duration {
	return p.timeLimit
}

func (p *Processor) CanFitJob(job types.Job) bool {
	return p.RemainingCapacity() >= job.ExecutionTime()
}

// AddJob appends job to the end of the processor's jobs if it fits and
// reports whether it did. A rejected job leaves the processor unchanged.
func (p *Processor) AddJob(job types.Job) bool {
	if !p.CanFitJob(job) {
		log.WithFields(log.Fields{
			"job":               job.JobName(),
			"executionTime":     job.ExecutionTime(),
			"timeLimit":         p.timeLimit,
			"remainingCapacity": p.RemainingCapacity(),
		}).Debug("job rejected, processor time limit would be exceeded")
		return false
	}
	p.jobs = append(p.jobs, job)
	return true
}

func (p *Processor) PeakMemoryUsage() types.Memory {
	return util.Max(func(job types.Job) types.Memory {
		return job.MemoryUsage()
	}, p.jobs...)
}

func (p *Processor) TotalComputationTime() types.Duration {
	return util.Sum(func(job types.Job) types.Duration {
		return job.ExecutionTime()
	}, p.jobs...)
}

func (p *Processor) RemainingCapacity() types.Duration {
	return p.timeLimit - p.TotalComputationTime()
}

// ScheduledJobs returns the jobs in the order they execute: shortest execution
// time first, ties in admission order.
func (p *Processor) ScheduledJobs() []types.Job {
	scheduled := make([]types.Job, len(p.jobs))
	copy(scheduled, p.jobs)
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].ExecutionTime() < scheduled[j].ExecutionTime()
	})
	return scheduled
}

// InsertionOrder returns the jobs in the order they were admitted.
func (p *Processor) InsertionOrder() []types.Job {
	return slices.Clone(p.jobs)
}

// Equals compares time limits and jobs in admission order, not schedule order.
// Two nil processors are equal.
func (p *Processor) Equals(that *Processor) bool {
	if p == nil || that == nil {
		return p == that
	}
	return p.timeLimit == that.timeLimit && slices.Equal(p.jobs, that.jobs)
}

func (p *Processor) Validate() error {
	var result *multierror.Error
	for _, err := range p.validate() {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (p *Processor) validate() []error {
	errs := make([]error, 0)
	if p.timeLimit <= 0 {
		errs = append(errs, &types.ErrInvalidArgument{
			Name:    "timeLimit",
			Value:   p.timeLimit,
			Message: "processor time limit must be positive",
		})
	}
	for _, job := range p.jobs {
		if err := job.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (p *Processor) PrettyExpose() interface{} {
	return struct {
		TimeLimit            types.Duration
		TotalComputationTime types.Duration
		PeakMemoryUsage      types.Memory
		Jobs                 []types.Job
	}{
		p.timeLimit, p.TotalComputationTime(), p.PeakMemoryUsage(), p.jobs,
	}
}
