package domain

// VerificationStatus is the cheque/transfer review state. The empty value is
// the "not yet reviewed" sentinel; SUCCESS and FAILED are terminal.
type VerificationStatus string

const (
	VerificationPending VerificationStatus = ""
	VerificationSuccess VerificationStatus = "SUCCESS"
	VerificationFailed  VerificationStatus = "FAILED"
)

// ParseDecision validates an operator decision. Only the two terminal values
// are acceptable input.
func ParseDecision(s string) (VerificationStatus, error) {
	switch VerificationStatus(s) {
	case VerificationSuccess:
		return VerificationSuccess, nil
	case VerificationFailed:
		return VerificationFailed, nil
	}
	return "", ErrInvalidDecision
}

// IsTerminal reports whether the status may no longer change
func (v VerificationStatus) IsTerminal() bool {
	return v == VerificationSuccess || v == VerificationFailed
}

// CheckVerification enforces the single-shot verification contract:
// re-driving an already-terminal record is a conflict, and a FAILED decision
// carries a mandatory non-empty reason. Returns nil when the transition from
// current to decision is legal.
func CheckVerification(current VerificationStatus, decision VerificationStatus, reason string) error {
	if current.IsTerminal() {
		return ErrVerificationConflict
	}
	switch decision {
	case VerificationSuccess:
		return nil
	case VerificationFailed:
		if reason == "" {
			return ErrReasonRequired
		}
		return nil
	}
	return ErrInvalidDecision
}
