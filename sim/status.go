package sim

import "fmt"

// ApplicantStatus is the lifecycle state of one Applicant. Values are
// ordered: an Applicant only ever moves to the next value.
type ApplicantStatus int32

const (
	ApplicantNonExistent ApplicantStatus = iota
	ApplicantWantsToEnter
	ApplicantEnters
	ApplicantChecks
	ApplicantApproved
	ApplicantWantsCertificate
	ApplicantGotCertificate
	ApplicantWantsToLeave
	ApplicantLeft
)

var applicantStatusNames = [...]string{
	"non-existent", "wants to enter", "enters", "checks", "approved",
	"wants certificate", "got certificate", "wants to leave", "left",
}

func (s ApplicantStatus) String() string {
	if s < 0 || int(s) >= len(applicantStatusNames) {
		return fmt.Sprintf("ApplicantStatus(%d)", int32(s))
	}
	return applicantStatusNames[s]
}

// OfficialStatus is the lifecycle state of the Official.
type OfficialStatus int32

const (
	OfficialNonExistent OfficialStatus = iota
	OfficialWantsToEnter
	OfficialEnters
	OfficialReviewing
	OfficialFinalizing
	OfficialLeaves
	OfficialFinished
)

var officialStatusNames = [...]string{
	"non-existent", "wants to enter", "enters", "reviewing", "finalizing", "leaves", "finished",
}

func (s OfficialStatus) String() string {
	if s < 0 || int(s) >= len(officialStatusNames) {
		return fmt.Sprintf("OfficialStatus(%d)", int32(s))
	}
	return officialStatusNames[s]
}

// InHall reports whether the Official owns the hall door in this state.
// Applicants can neither enter nor leave while it does.
func (s OfficialStatus) InHall() bool {
	return s == OfficialEnters || s == OfficialReviewing || s == OfficialFinalizing
}
