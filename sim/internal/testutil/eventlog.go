// Package testutil provides shared test infrastructure for the hall
// simulator: a replay checker that validates a recorded event log against
// the hall's ordering and accounting rules.
package testutil

import (
	"strings"
	"testing"

	"github.com/inference-sim/hall-sim/sim/trace"
)

const officialActor = "OFFICIAL"

// applicantLifecycle is the exact action sequence of every Applicant.
var applicantLifecycle = []string{
	"starts", "enters", "checks", "wants certificate", "got certificate", "wants to leave", "leaves",
}

// CheckEventLog replays records and reports every violation on t:
//   - sequence numbers are 1..len(records) in order
//   - occupancy equals Applicant entries minus exits at every stats event
//   - unresolved >= registered >= 0
//   - the Official never starts a review with unregistered occupants
//   - no Applicant enters or leaves while the Official is in the hall
//   - each of the n Applicants follows its lifecycle exactly once
//   - the last Official event is "finishes"
func CheckEventLog(t *testing.T, records []trace.Record, n int) {
	t.Helper()

	var entered, left int64
	officialInside := false
	lastOfficial := ""
	progress := make(map[string]int)

	for i, r := range records {
		if r.Seq != uint64(i+1) {
			t.Fatalf("record %d: seq %d, want %d", i, r.Seq, i+1)
		}

		if r.Actor == officialActor {
			lastOfficial = r.Action
			switch r.Action {
			case "enters":
				officialInside = true
			case "leaves":
				officialInside = false
			case "starts confirmation":
				if r.Stats == nil || r.Stats.Unresolved != r.Stats.Registered {
					t.Errorf("seq %d: review started with unregistered occupants: %+v", r.Seq, r.Stats)
				}
			}
		} else if strings.HasPrefix(r.Actor, "APP ") {
			step := progress[r.Actor]
			if step >= len(applicantLifecycle) || applicantLifecycle[step] != r.Action {
				t.Errorf("seq %d: %s did %q at lifecycle step %d", r.Seq, r.Actor, r.Action, step)
			}
			progress[r.Actor] = step + 1
			switch r.Action {
			case "enters":
				entered++
			case "leaves":
				left++
			}
			if officialInside && (r.Action == "enters" || r.Action == "leaves") {
				t.Errorf("seq %d: %s %s while the official is in the hall", r.Seq, r.Actor, r.Action)
			}
		} else {
			t.Errorf("seq %d: unknown actor %q", r.Seq, r.Actor)
		}

		if s := r.Stats; s != nil {
			if s.Occupancy != entered-left {
				t.Errorf("seq %d: occupancy %d, want %d entered - %d left", r.Seq, s.Occupancy, entered, left)
			}
			if s.Occupancy < 0 || s.Registered < 0 || s.Unresolved < s.Registered {
				t.Errorf("seq %d: inconsistent counters %+v", r.Seq, *s)
			}
		}
	}

	if len(progress) != n {
		t.Errorf("%d applicants logged events, want %d", len(progress), n)
	}
	for actor, step := range progress {
		if step != len(applicantLifecycle) {
			t.Errorf("%s stopped after %d of %d lifecycle events", actor, step, len(applicantLifecycle))
		}
	}
	if lastOfficial != "finishes" {
		t.Errorf("official's last event is %q, want \"finishes\"", lastOfficial)
	}
	if entered != left {
		t.Errorf("%d entered but %d left", entered, left)
	}
}

// IndexOf returns the position of the first record by actor with action,
// or -1.
func IndexOf(records []trace.Record, actor, action string) int {
	for i, r := range records {
		if r.Actor == actor && r.Action == action {
			return i
		}
	}
	return -1
}
