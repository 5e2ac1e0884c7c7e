package stats

import (
	"math"
	"sort"

	"github.com/dgallion1/semchunk/internal/document"
)

// SizeDistribution summarizes chunk content sizes in characters.
type SizeDistribution struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// QualityAggregate counts chunks exhibiting each content-quality signal.
type QualityAggregate struct {
	WithNumericalData int     `json:"with_numerical_data"`
	WithDates         int     `json:"with_dates"`
	WithNamedEntities int     `json:"with_named_entities"`
	WithExhibits      int     `json:"with_exhibits"`
	WithCitations     int     `json:"with_citations"`
	AvgWordCount      float64 `json:"avg_word_count"`
}

// Counters carries the processing counters accumulated during a run.
type Counters struct {
	DuplicatesPrevented int `json:"duplicates_prevented"`
	ValidationFailures  int `json:"validation_failures"`
	CrossPageMerges     int `json:"cross_page_merges"`
}

// Detailed is the statistics payload attached to every chunking result.
type Detailed struct {
	SizeDistribution SizeDistribution      `json:"size_distribution"`
	TypeHistogram    map[document.Kind]int `json:"type_histogram"`
	ChunksPerPage    map[int]int           `json:"chunks_per_page"`
	Quality          QualityAggregate      `json:"quality"`
	Processing       Counters              `json:"processing"`
}

// Compute assembles the detailed statistics for a finished chunk list.
func Compute(chunks []document.Chunk, counters Counters) Detailed {
	d := Detailed{
		TypeHistogram: make(map[document.Kind]int),
		ChunksPerPage: make(map[int]int),
		Processing:    counters,
	}
	if len(chunks) == 0 {
		return d
	}

	sizes := make([]float64, 0, len(chunks))
	totalWords := 0
	for _, c := range chunks {
		sizes = append(sizes, float64(c.Metadata.CharCount))
		d.TypeHistogram[c.Metadata.Type]++
		d.ChunksPerPage[c.Metadata.PageNumber]++

		q := c.Metadata.Quality
		totalWords += q.WordCount
		if q.HasNumericalData {
			d.Quality.WithNumericalData++
		}
		if q.HasDates {
			d.Quality.WithDates++
		}
		if q.HasNamedEntities {
			d.Quality.WithNamedEntities++
		}
		if q.HasExhibits {
			d.Quality.WithExhibits++
		}
		if c.Metadata.HasCitations {
			d.Quality.WithCitations++
		}
	}
	d.Quality.AvgWordCount = float64(totalWords) / float64(len(chunks))

	sort.Float64s(sizes)
	var sum float64
	for _, s := range sizes {
		sum += s
	}
	mean := sum / float64(len(sizes))

	var variance float64
	for _, s := range sizes {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(sizes))

	d.SizeDistribution = SizeDistribution{
		Min:    int(sizes[0]),
		Max:    int(sizes[len(sizes)-1]),
		Mean:   mean,
		Median: percentile(sizes, 50),
		StdDev: math.Sqrt(variance),
		P25:    percentile(sizes, 25),
		P75:    percentile(sizes, 75),
	}
	return d
}

// percentile linearly interpolates over sorted values.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}
