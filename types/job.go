package types

import "fmt"

type JobName string

// Duration is an amount of processor time. Execution times, time limits and
// flow times all share this unit.
type Duration int

type Memory int

// Job is an immutable value. Two jobs are equal when name, execution time and
// memory usage all match, so the same Job may be placed on several processors.
type Job struct {
	jobName       JobName
	executionTime Duration
	memoryUsage   Memory
}

func NewJob(jobName JobName, executionTime Duration, memoryUsage Memory) Job {
	return Job{
		jobName:       jobName,
		executionTime: executionTime,
		memoryUsage:   memoryUsage,
	}
}

func (j Job) JobName() JobName {
	return j.jobName
}

func (j Job) ExecutionTime() Duration {
	return j.executionTime
}

func (j Job) MemoryUsage() Memory {
	return j.memoryUsage
}

// Validate reports attributes that construction silently accepts.
func (j Job) Validate() error {
	if j.executionTime <= 0 {
		return &ErrInvalidArgument{
			Name:    "executionTime",
			Value:   j.executionTime,
			Message: fmt.Sprintf("job %q must have a positive execution time", j.jobName),
		}
	}
	if j.memoryUsage < 0 {
		return &ErrInvalidArgument{
			Name:    "memoryUsage",
			Value:   j.memoryUsage,
			Message: fmt.Sprintf("job %q must not have a negative memory usage", j.jobName),
		}
	}
	return nil
}

func (j Job) String() string {
	return fmt.Sprintf("job=[Name=%s, ExecutionTime=%d, MemoryUsage=%d]", j.jobName, j.executionTime, j.memoryUsage)
}
