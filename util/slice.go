package util

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// IndexOf returns the position of the first element equal to target, or -1.
func IndexOf[E comparable](slice []E, target E) int {
	for i, e := range slice {
		if e == target {
			return i
		}
	}
	return -1
}

func StringSliceJoinWith(slice []string, s string) string {
	return fmt.Sprintf("[%s]", strings.Join(slice, s))
}

func Sum[E any, N Number](f func(item E) N, vs ...E) N {
	var s N
	for _, v := range vs {
		s += f(v)
	}
	return s
}

// Max starts from the zero value, so an empty input or one with only
// negative values yields 0.
func Max[E any, N Number](f func(item E) N, vs ...E) N {
	var m N
	for _, v := range vs {
		if x := f(v); x > m {
			m = x
		}
	}
	return m
}

// Avg panics on empty input; callers decide what an empty average means.
func Avg[N Number](vs ...N) float64 {
	if len(vs) == 0 {
		panic("util.Avg called with no values")
	}
	return float64(Sum(func(v N) N { return v }, vs...)) / float64(len(vs))
}
