package models

// QuestionKind selects a question bank and the matching answer fields
type QuestionKind string

const (
	QuestionKindRole      QuestionKind = "role"
	QuestionKindAdjective QuestionKind = "adjective"
	QuestionKindFree      QuestionKind = "free"
)

// QuestionKindForPhase maps a question phase to its kind
func QuestionKindForPhase(p Phase) (QuestionKind, bool) {
	switch p {
	case PhaseRoleQuestion:
		return QuestionKindRole, true
	case PhaseAdjectiveQuestion:
		return QuestionKindAdjective, true
	case PhaseFreeQuestion:
		return QuestionKindFree, true
	}
	return "", false
}

// RolesResponses holds everything one player answered during a round, in
// arrival order
type RolesResponses struct {
	Role      []string
	Adjective []string
	Free      []string
}

// For returns the list for a question kind
func (r *RolesResponses) For(kind QuestionKind) []string {
	switch kind {
	case QuestionKindRole:
		return r.Role
	case QuestionKindAdjective:
		return r.Adjective
	case QuestionKindFree:
		return r.Free
	}
	return nil
}

// Set replaces the list for a question kind
func (r *RolesResponses) Set(kind QuestionKind, values []string) {
	switch kind {
	case QuestionKindRole:
		r.Role = values
	case QuestionKindAdjective:
		r.Adjective = values
	case QuestionKindFree:
		r.Free = values
	}
}
