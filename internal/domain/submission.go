package domain

// Presence is the result of a single repository query for one
// (student, label) pair across every location.
type Presence struct {
	Inbox   bool
	Active  bool
	Archive bool
}

// Primary returns the one location that best describes where the
// submission lives: active, then inbox, then archive.
func (p Presence) Primary() Location {
	switch {
	case p.Active:
		return LocationActive
	case p.Inbox:
		return LocationInbox
	case p.Archive:
		return LocationArchive
	default:
		return LocationNone
	}
}

type Grade struct {
	Technical    *float64 `json:"technical,omitempty"`
	Presentation *float64 `json:"presentation,omitempty"`
	Overall      *float64 `json:"overall,omitempty"`
}

func (g *Grade) IsEmpty() bool {
	return g == nil || (g.Technical == nil && g.Presentation == nil && g.Overall == nil)
}

type Metadata struct {
	Grade    *Grade
	TurnedIn *string
	Returned *string
	Comments []string
}

// Graded reports whether an overall score has been entered. Partial
// grades without an overall do not count.
func (m Metadata) Graded() bool {
	return m.Grade != nil && m.Grade.Overall != nil
}

// OverallGrade returns the overall score or nil when ungraded.
func (m Metadata) OverallGrade() *float64 {
	if m.Grade.IsEmpty() {
		return nil
	}
	return m.Grade.Overall
}

// StateOf derives the lifecycle state from a presence query and, when an
// active file exists, its metadata.
func StateOf(p Presence, meta *Metadata) State {
	if p.Active {
		switch {
		case meta != nil && meta.Graded() && meta.Returned != nil:
			return StateReturned
		case meta != nil && meta.Graded():
			return StateGraded
		default:
			return StateActive
		}
	}
	if p.Inbox {
		return StatePending
	}
	if p.Archive {
		return StateArchived
	}
	return StateNoSubmission
}
