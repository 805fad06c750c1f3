package gmail

// Email is one unread message as the pipeline sees it. Instances are
// created per fetch and never mutated afterwards; "read" state lives
// entirely in Gmail.
type Email struct {
	// ID is the opaque Gmail message identifier.
	ID string

	// Subject is the decoded Subject header.
	Subject string

	// Sender is the From header, typically "Name <address>".
	Sender string

	// Date is the raw Date header, empty when absent.
	Date string

	// Body is the extracted plain-text body, truncated to maxBodyLength.
	Body string

	// Snippet is Gmail's short preview, used as a fallback when body
	// extraction comes up empty.
	Snippet string
}

// Content returns the text to feed downstream: the extracted body, or
// the snippet when extraction failed.
func (e Email) Content() string {
	if e.Body != "" {
		return e.Body
	}
	return e.Snippet
}
