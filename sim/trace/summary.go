package trace

// Summary aggregates statistics from a list of records.
type Summary struct {
	TotalEvents   int            `yaml:"total_events"`
	FirstSeq      uint64         `yaml:"first_seq"`
	LastSeq       uint64         `yaml:"last_seq"`
	PeakOccupancy int64          `yaml:"peak_occupancy"`
	Actions       map[string]int `yaml:"actions"` // action → number of events
}

// Summarize computes aggregate statistics from records in emission order.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(records []Record) *Summary {
	summary := &Summary{
		Actions: make(map[string]int),
	}
	if len(records) == 0 {
		return summary
	}

	summary.TotalEvents = len(records)
	summary.FirstSeq = records[0].Seq
	summary.LastSeq = records[len(records)-1].Seq
	for _, r := range records {
		summary.Actions[r.Action]++
		if r.Stats != nil && r.Stats.Occupancy > summary.PeakOccupancy {
			summary.PeakOccupancy = r.Stats.Occupancy
		}
	}
	return summary
}
