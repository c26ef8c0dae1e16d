package domain

// OutboundMessage is a composed email ready for transport. Created per
// send attempt and discarded after logging.
type OutboundMessage struct {
	RecipientEmail string
	RecipientName  string
	Type           NotificationType
	Subject        string
	Body           string
	HTMLBody       string
}

// SendOutcome is the ephemeral result of one transport attempt,
// produced by the sender and consumed by the logger, aggregator and
// orchestrator.
type SendOutcome struct {
	Success bool
	// Method is the tag of the channel that carried the message
	// (e.g. "starttls" or "ssl"); set on both success and failure
	// to the last channel tried.
	Method string
	// MessageID is a synthesized trace identifier, present iff Success.
	// It is not a transport-assigned id.
	MessageID string
	// ErrorDetail concatenates the per-channel failures, present iff
	// the send failed on every channel.
	ErrorDetail string
}

// Status maps the outcome to the log/statistics status enum.
func (o SendOutcome) Status() SendStatus {
	if o.Success {
		return StatusSent
	}
	return StatusFailed
}
