// Package analytics computes trend statistics and period-over-period
// comparisons over materialized fact collections and uptime log histories.
// It is pure: no I/O, safe for concurrent use.
package analytics

import (
	"fmt"
	"sort"
	"time"
)

// Fact is one timestamped record materialized from the fact store. Values
// holds the numeric attributes to summarize; a nil value means the provider
// omitted the metric and it is excluded from aggregates.
type Fact struct {
	Timestamp time.Time
	Group     string
	Values    map[string]*float64
}

// Point is one entry of the ordered series inside a trend result.
type Point struct {
	Timestamp time.Time           `json:"timestamp"`
	Values    map[string]*float64 `json:"values"`
}

// TrendResult holds per-attribute aggregates plus the ordered point series.
// An attribute with no finite samples has nil aggregates, never zero.
type TrendResult struct {
	Avg    map[string]*float64 `json:"avg"`
	Min    map[string]*float64 `json:"min"`
	Max    map[string]*float64 `json:"max"`
	Points []Point             `json:"points"`
}

// Period is an inclusive-start date range parsed from "2006-01-02" strings.
// For facts the filter window is [start, end + 1 day).
type Period struct {
	Start string
	End   string
}

const dateLayout = "2006-01-02"

// Trend computes aggregates and the ascending point series over the whole
// collection for the requested attributes.
func Trend(facts []Fact, fields []string) TrendResult {
	ordered := make([]Fact, len(facts))
	copy(ordered, facts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	result := TrendResult{
		Avg:    make(map[string]*float64, len(fields)),
		Min:    make(map[string]*float64, len(fields)),
		Max:    make(map[string]*float64, len(fields)),
		Points: make([]Point, 0, len(ordered)),
	}

	sums := make(map[string]float64, len(fields))
	counts := make(map[string]int, len(fields))

	for _, fact := range ordered {
		values := make(map[string]*float64, len(fields))
		for _, field := range fields {
			v := fact.Values[field]
			values[field] = v
			if v == nil {
				continue
			}
			sums[field] += *v
			counts[field]++
			if cur := result.Min[field]; cur == nil || *v < *cur {
				result.Min[field] = ptr(*v)
			}
			if cur := result.Max[field]; cur == nil || *v > *cur {
				result.Max[field] = ptr(*v)
			}
		}
		result.Points = append(result.Points, Point{
			Timestamp: fact.Timestamp,
			Values:    values,
		})
	}

	for _, field := range fields {
		if counts[field] > 0 {
			result.Avg[field] = ptr(sums[field] / float64(counts[field]))
		} else {
			result.Avg[field] = nil
			result.Min[field] = nil
			result.Max[field] = nil
		}
	}

	return result
}

// TrendByGroup partitions the collection by distinct Group values and
// computes one trend per partition.
func TrendByGroup(facts []Fact, fields []string) map[string]TrendResult {
	partitions := make(map[string][]Fact)
	for _, fact := range facts {
		partitions[fact.Group] = append(partitions[fact.Group], fact)
	}

	results := make(map[string]TrendResult, len(partitions))
	for group, partition := range partitions {
		results[group] = Trend(partition, fields)
	}
	return results
}

// Compare computes one trend per period, keyed positionally as period1,
// period2, and so on. Each period filters facts to [start, end + 1 day).
func Compare(facts []Fact, fields []string, periods []Period) (map[string]TrendResult, error) {
	results := make(map[string]TrendResult, len(periods))
	for i, period := range periods {
		filtered, err := filterPeriod(facts, period)
		if err != nil {
			return nil, err
		}
		results[fmt.Sprintf("period%d", i+1)] = Trend(filtered, fields)
	}
	return results, nil
}

// CompareByGroup is Compare with per-period group partitioning.
func CompareByGroup(facts []Fact, fields []string, periods []Period) (map[string]map[string]TrendResult, error) {
	results := make(map[string]map[string]TrendResult, len(periods))
	for i, period := range periods {
		filtered, err := filterPeriod(facts, period)
		if err != nil {
			return nil, err
		}
		results[fmt.Sprintf("period%d", i+1)] = TrendByGroup(filtered, fields)
	}
	return results, nil
}

func filterPeriod(facts []Fact, period Period) ([]Fact, error) {
	start, err := time.Parse(dateLayout, period.Start)
	if err != nil {
		return nil, fmt.Errorf("parse period start %q: %w", period.Start, err)
	}
	end, err := time.Parse(dateLayout, period.End)
	if err != nil {
		return nil, fmt.Errorf("parse period end %q: %w", period.End, err)
	}
	end = end.AddDate(0, 0, 1)

	var filtered []Fact
	for _, fact := range facts {
		if !fact.Timestamp.Before(start) && fact.Timestamp.Before(end) {
			filtered = append(filtered, fact)
		}
	}
	return filtered, nil
}

func ptr(v float64) *float64 {
	return &v
}
