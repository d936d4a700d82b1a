package stats

import (
	"math"
	"slices"
	"time"

	"sprint-kpis/internal/jira"
)

// CalculateMedianDiscrete finds the median value in a slice of integers.
func CalculateMedianDiscrete(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]int, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return float64(temp[n/2])
	}
	return float64(temp[n/2-1]+temp[n/2]) / 2.0
}

// CalculateAverage returns the arithmetic mean rounded to one decimal, 0 for no values.
func CalculateAverage(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return round1(float64(sum) / float64(len(values)))
}

// ElapsedDays returns whole calendar days between two export dates, clamped at zero.
// It returns false when either date is missing or cannot be parsed.
func ElapsedDays(from, to string) (int, bool) {
	start, ok := jira.ParseDate(from)
	if !ok {
		return 0, false
	}
	end, ok := jira.ParseDate(to)
	if !ok {
		return 0, false
	}
	return daysBetween(start, end), true
}

func daysBetween(start, end time.Time) int {
	days := int(math.Round(end.Sub(start).Hours() / 24))
	return max(0, days)
}

func percentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
