package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_NilRecords_ReturnsZeroSummary(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalEvents)
	assert.NotNil(t, s.Actions)
}

func TestSummarize_CountsActionsAndPeakOccupancy(t *testing.T) {
	// GIVEN a short run
	records := []Record{
		{Seq: 1, Actor: "APP 1", Action: "starts"},
		{Seq: 2, Actor: "APP 1", Action: "enters", Stats: &Stats{Unresolved: 1, Occupancy: 1}},
		{Seq: 3, Actor: "APP 2", Action: "enters", Stats: &Stats{Unresolved: 2, Occupancy: 2}},
		{Seq: 4, Actor: "APP 1", Action: "leaves", Stats: &Stats{Unresolved: 1, Occupancy: 1}},
	}

	// WHEN summarized
	s := Summarize(records)

	// THEN counts and bounds reflect the records
	assert.Equal(t, 4, s.TotalEvents)
	assert.Equal(t, uint64(1), s.FirstSeq)
	assert.Equal(t, uint64(4), s.LastSeq)
	assert.Equal(t, int64(2), s.PeakOccupancy)
	assert.Equal(t, 2, s.Actions["enters"])
	assert.Equal(t, 1, s.Actions["leaves"])
}
