package placement

import (
	"fmt"
	"strings"

	"placement-go/types"
)

// MedianPolicy selects which two flow times are averaged when a placement
// holds an even number of jobs.
type MedianPolicy int

const (
	// MedianStandard averages the elements at n/2-1 and n/2.
	MedianStandard = MedianPolicy(0)
	// MedianReferenceIndexing averages the elements at n/2 and n/2+1, matching
	// the indexing of the system this model was derived from. With two jobs the
	// second index is out of range and the median is undefined.
	MedianReferenceIndexing = MedianPolicy(1)
)

var medianPolicyNames = map[MedianPolicy]string{
	MedianStandard:          "standard",
	MedianReferenceIndexing: "reference",
}

func (m MedianPolicy) String() string {
	if name, ok := medianPolicyNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MedianPolicy(%d)", int(m))
}

func ParseMedianPolicy(s string) (MedianPolicy, error) {
	for policy, name := range medianPolicyNames {
		if strings.EqualFold(s, name) {
			return policy, nil
		}
	}
	return MedianStandard, &types.ErrInvalidArgument{
		Name:    "medianPolicy",
		Value:   s,
		Message: "expected one of standard, reference",
	}
}

type Options struct {
	medianPolicy MedianPolicy
}

func defaultOptions() *Options {
	return &Options{
		medianPolicy: MedianStandard,
	}
}

type SetOption func(options *Options)

func WithMedianPolicy(policy MedianPolicy) SetOption {
	return func(options *Options) {
		options.medianPolicy = policy
	}
}
