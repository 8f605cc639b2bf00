package sentiment

import "fmt"

// Tally counts predictions per sentiment. All three categories are always
// present, absent ones are zero.
type Tally struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func NewTally(labels []Label) (Tally, error) {
	var t Tally
	for _, l := range labels {
		if err := t.Add(l); err != nil {
			return Tally{}, err
		}
	}
	return t, nil
}

func (t *Tally) Add(l Label) error {
	switch l {
	case Positive:
		t.Positive++
	case Neutral:
		t.Neutral++
	case Negative:
		t.Negative++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLabel, string(l))
	}
	return nil
}

func (t Tally) Count(l Label) int {
	switch l {
	case Positive:
		return t.Positive
	case Neutral:
		return t.Neutral
	case Negative:
		return t.Negative
	}
	return 0
}

func (t Tally) Total() int {
	return t.Positive + t.Neutral + t.Negative
}

func (t Tally) Counts() map[Label]int {
	counts := make(map[Label]int, 3)
	for _, l := range Ordered() {
		counts[l] = t.Count(l)
	}
	return counts
}

// Percent is the share of l in the tally, 0 for an empty tally.
func (t Tally) Percent(l Label) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.Count(l)) * 100 / float64(total)
}
