package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicantStatus_String(t *testing.T) {
	assert.Equal(t, "non-existent", ApplicantNonExistent.String())
	assert.Equal(t, "checks", ApplicantChecks.String())
	assert.Equal(t, "left", ApplicantLeft.String())
	assert.Equal(t, "ApplicantStatus(42)", ApplicantStatus(42).String())
}

func TestOfficialStatus_InHall(t *testing.T) {
	tests := []struct {
		status OfficialStatus
		inHall bool
	}{
		{OfficialNonExistent, false},
		{OfficialWantsToEnter, false},
		{OfficialEnters, true},
		{OfficialReviewing, true},
		{OfficialFinalizing, true},
		{OfficialLeaves, false},
		{OfficialFinished, false},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.inHall, tt.status.InHall())
		})
	}
}
