package mailbox

import (
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// ExtractPayloads extracts the plain-text payload strings from an email
// message. For multipart messages every part is visited, including nested
// multipart containers. HTML copies of the main message, PGP key material
// and exact duplicate copies are dropped.
func ExtractPayloads(msg *mail.Message, logger *zap.Logger) ([]string, error) {
	candidates, err := collectParts(msg.Body, msg.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var payloads []string
	for _, payload := range candidates {
		if !usablePayload(payload) {
			continue
		}
		if _, dup := seen[payload]; dup {
			continue
		}
		seen[payload] = struct{}{}
		payloads = append(payloads, payload)
	}

	if len(payloads) > 1 && logger != nil {
		logger.Warn("More than one distinct payload in message",
			zap.Int("payloads", len(payloads)))
	}

	return payloads, nil
}

// collectParts walks a message body, descending into multipart containers,
// and returns the raw text of every leaf part
func collectParts(body io.Reader, contentType string) ([]string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		// Not multipart (or an unparseable Content-Type): the whole
		// body is a single payload
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		return []string{string(raw)}, nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		return []string{string(raw)}, nil
	}

	var parts []string
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed remainder: keep what was collected so far
			return parts, nil
		}

		partType := part.Header.Get("Content-Type")
		if strings.HasPrefix(strings.ToLower(partType), "multipart/") {
			nested, err := collectParts(part, partType)
			if err != nil {
				continue
			}
			parts = append(parts, nested...)
			continue
		}

		raw, err := io.ReadAll(part)
		if err != nil {
			continue
		}
		parts = append(parts, string(raw))
	}

	return parts, nil
}

// usablePayload filters out part bodies that are not message text: html
// copies of the main message, PGP key blocks (no spaces at all) and
// signatures
func usablePayload(payload string) bool {
	if strings.Contains(payload, "<html>") ||
		strings.Contains(payload, "</html>") ||
		strings.Contains(payload, "<div>") ||
		strings.Contains(payload, "</div>") {
		return false
	}
	if !strings.Contains(payload, " ") {
		return false
	}
	if strings.Contains(payload, "PGP SIGNATURE") {
		return false
	}
	return true
}
