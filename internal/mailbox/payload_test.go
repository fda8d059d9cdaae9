package mailbox

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readTestMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)
	return msg
}

func TestExtractPayloadsPlainText(t *testing.T) {
	msg := readTestMessage(t, "From: a@example.com\r\n"+
		"Subject: hello\r\n"+
		"\r\n"+
		"+1 (binding) from me\r\n")

	payloads, err := ExtractPayloads(msg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], "+1 (binding)")
}

func TestExtractPayloadsMultipartDropsHTML(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: hello\r\n" +
		"Content-Type: multipart/alternative; boundary=\"BOUNDARY\"\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		"+1 looks good to me\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		"<html><body><div>+1 looks good to me</div></body></html>\r\n" +
		"--BOUNDARY--\r\n"

	payloads, err := ExtractPayloads(readTestMessage(t, raw), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], "+1 looks good to me")
	assert.NotContains(t, payloads[0], "<html>")
}

func TestExtractPayloadsNestedMultipart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: hello\r\n" +
		"Content-Type: multipart/mixed; boundary=\"OUTER\"\r\n" +
		"\r\n" +
		"--OUTER\r\n" +
		"Content-Type: multipart/alternative; boundary=\"INNER\"\r\n" +
		"\r\n" +
		"--INNER\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"the actual message text\r\n" +
		"--INNER--\r\n" +
		"--OUTER--\r\n"

	payloads, err := ExtractPayloads(readTestMessage(t, raw), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], "the actual message text")
}

func TestExtractPayloadsDeduplicatesIdenticalParts(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: hello\r\n" +
		"Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"same text here\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"same text here\r\n" +
		"--BOUNDARY--\r\n"

	payloads, err := ExtractPayloads(readTestMessage(t, raw), zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, payloads, 1)
}

func TestExtractPayloadsDropsSignatureParts(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: hello\r\n" +
		"Content-Type: multipart/signed; boundary=\"BOUNDARY\"\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"message body text\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: application/pgp-signature\r\n" +
		"\r\n" +
		"-----BEGIN PGP SIGNATURE-----\r\nabc def\r\n-----END PGP SIGNATURE-----\r\n" +
		"--BOUNDARY--\r\n"

	payloads, err := ExtractPayloads(readTestMessage(t, raw), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], "message body text")
}

func TestExtractPayloadsDropsKeyMaterial(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: hello\r\n" +
		"Content-Type: multipart/mixed; boundary=\"BOUNDARY\"\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"real message text\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"mQENBEt9wioBCADh0bdDopK7wdLLt6YIEA3KWdXmRhhmY2PDikKZq5EQlwkAmdZF\r\n" +
		"--BOUNDARY--\r\n"

	payloads, err := ExtractPayloads(readTestMessage(t, raw), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], "real message text")
}
