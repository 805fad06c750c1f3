package gmail

import (
	"encoding/base64"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// maxBodyLength bounds the body text handed to the classifier.
	maxBodyLength = 3000

	// truncationMarker is appended to bodies cut at maxBodyLength.
	truncationMarker = "...[truncated]"
)

// toEmail converts a full Gmail message into the pipeline's Email record.
func toEmail(msg *gmail.Message) Email {
	return Email{
		ID:      msg.Id,
		Subject: HeaderValue(msg, "Subject"),
		Sender:  HeaderValue(msg, "From"),
		Date:    HeaderValue(msg, "Date"),
		Body:    ExtractBody(msg.Payload),
		Snippet: msg.Snippet,
	}
}

// HeaderValue extracts a header value from a Gmail message.
func HeaderValue(m *gmail.Message, header string) string {
	mpart := m.Payload
	if mpart == nil {
		return ""
	}
	for _, mph := range mpart.Headers {
		if mph.Name == header {
			return mph.Value
		}
	}
	return ""
}

// ExtractBody extracts the plain-text body from a message payload and
// truncates it to maxBodyLength. Extraction is idempotent: a body at or
// under the limit is returned unchanged.
func ExtractBody(payload *gmail.MessagePart) string {
	body := extractText(payload)
	if len(body) > maxBodyLength {
		body = body[:maxBodyLength] + truncationMarker
	}
	return body
}

// extractText prefers a direct body, then the first text/plain leaf.
// multipart/alternative wrappers are descended into before other parts
// are considered.
func extractText(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}

	if part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}

	for _, p := range part.Parts {
		switch p.MimeType {
		case "text/plain":
			if p.Body != nil && p.Body.Data != "" {
				return decodeBody(p.Body.Data)
			}
		case "multipart/alternative":
			if body := extractText(p); body != "" {
				return body
			}
		}
	}

	return ""
}

// decodeBody decodes Gmail's base64url body data. Some messages arrive
// padded, some not, so fall through the encodings.
func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.StdEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}
