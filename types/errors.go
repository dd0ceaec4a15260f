package types

import "fmt"

// ErrInvalidArgument is returned by validation when a processor or job carries
// a value the model does not support, e.g. a non-positive time limit.
type ErrInvalidArgument struct {
	Name    string      // Name of the field, e.g. "timeLimit"
	Value   interface{} // The invalid value
	Message string      // Optional explanation
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %v is invalid for field %q", err.Value, err.Name)
	}
	return fmt.Sprintf("value %v is invalid for field %q; %s", err.Value, err.Name, err.Message)
}

// ErrUndefinedMetric is returned by a flow time metric whose value does not
// exist for the current placement, e.g. the mean flow time of a placement with no jobs.
type ErrUndefinedMetric struct {
	Metric  string
	Message string
}

func (err *ErrUndefinedMetric) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("metric %s is undefined", err.Metric)
	}
	return fmt.Sprintf("metric %s is undefined; %s", err.Metric, err.Message)
}
