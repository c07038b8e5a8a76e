package domain

type Location string

const (
	LocationNone    Location = "none"
	LocationInbox   Location = "inbox"
	LocationActive  Location = "active"
	LocationArchive Location = "archive"
)

func (l Location) IsValid() bool {
	switch l {
	case LocationInbox, LocationActive, LocationArchive:
		return true
	default:
		return false
	}
}

type State string

const (
	StateNoSubmission State = "NO_SUBMISSION"
	StatePending      State = "PENDING"
	StateArchived     State = "ARCHIVED"
	StateActive       State = "ACTIVE"
	StateGraded       State = "GRADED"
	StateReturned     State = "RETURNED"
)

type StatusMarker string

const (
	StatusAbsent    StatusMarker = ""
	StatusCollected StatusMarker = "Collected"
	StatusReturned  StatusMarker = "Returned"
)

func (s StatusMarker) IsValid() bool {
	switch s {
	case StatusCollected, StatusReturned:
		return true
	default:
		return false
	}
}

func ToStatusMarker(status string) StatusMarker {
	switch status {
	case "Collected":
		return StatusCollected
	case "Returned":
		return StatusReturned
	default:
		return StatusAbsent
	}
}

type Urgency string

const (
	UrgencyReturned Urgency = "returned"
	UrgencyDueSoon  Urgency = "due-soon"
	UrgencyOpen     Urgency = "open"
)
