package model

import "fmt"

const (
	DefaultSPercent = 40
	DefaultMPercent = 30
	DefaultLPercent = 30
)

// EstimateRecord holds the inputs and computed effort of one process input
type EstimateRecord struct {
	TotalCount int     `json:"Total Count" yaml:"totalCount"`
	SPercent   int     `json:"S%" yaml:"sPercent"`
	MPercent   int     `json:"M%" yaml:"mPercent"`
	LPercent   int     `json:"L%" yaml:"lPercent"`
	Effort     float64 `json:"Effort" yaml:"effort"`
	Comments   string  `json:"Comments" yaml:"comments"`
}

// NewEstimateRecord returns a record with the default 40/30/30 split and no items
func NewEstimateRecord() EstimateRecord {
	return EstimateRecord{
		TotalCount: 0,
		SPercent:   DefaultSPercent,
		MPercent:   DefaultMPercent,
		LPercent:   DefaultLPercent,
	}
}

// Validate checks ranges and that the size split adds up to 100
func (r EstimateRecord) Validate() error {
	if r.TotalCount < 0 {
		return fmt.Errorf("%w: total count must be >= 0, got %d", ErrInvalidValue, r.TotalCount)
	}
	for _, p := range []struct {
		label string
		value int
	}{{"S%", r.SPercent}, {"M%", r.MPercent}, {"L%", r.LPercent}} {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("%w: %s must be within [0, 100], got %d", ErrInvalidValue, p.label, p.value)
		}
	}
	if sum := r.SPercent + r.MPercent + r.LPercent; sum != 100 {
		return fmt.Errorf("%w: got %d%%", ErrPercentageMismatch, sum)
	}
	return nil
}

// Counts splits the total count into (possibly fractional) S, M and L counts
func (r EstimateRecord) Counts() (s, m, l float64) {
	total := float64(r.TotalCount)
	return total * float64(r.SPercent) / 100,
		total * float64(r.MPercent) / 100,
		total * float64(r.LPercent) / 100
}

// ComputeEffort returns the weighted hours of the record
// E = sCount*S + mCount*M + lCount*L
func (r EstimateRecord) ComputeEffort(m SizeMultiplier) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	s, med, l := r.Counts()
	return s*m.Small + med*m.Medium + l*m.Large, nil
}
