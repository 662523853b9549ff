package sharing

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/klauspost/compress/flate"

	pkgerrors "github.com/lucabarbieri/bestia-backend/pkg/errors"
	"github.com/lucabarbieri/bestia-backend/pkg/game"
)

// shareParam is the query parameter carrying the encoded session.
const shareParam = "g"

// decompressLimit caps how much a decoded payload may inflate to.
const decompressLimit = 16 << 20

// Encode serializes a session into a URL-safe payload: canonical JSON,
// deflate, then unpadded base64url.
func Encode(session *game.Session) (string, error) {
	if session == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session is required")
	}

	document, err := json.Marshal(session)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding session document")
	}

	var compressed bytes.Buffer
	writer, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "initializing compressor")
	}
	if _, err := writer.Write(document); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compressing session document")
	}
	if err := writer.Close(); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compressing session document")
	}

	return base64.RawURLEncoding.EncodeToString(compressed.Bytes()), nil
}

// Decode inverts Encode. Payloads that went through URL re-encoding or were
// produced with the standard alphabet or padding are normalized first.
// Anything that does not decode to a session document fails with a
// validation error.
func Decode(payload string) (*game.Session, error) {
	normalized := normalizePayload(payload)
	if normalized == "" {
		return nil, decodeError(nil)
	}

	compressed, err := base64.RawURLEncoding.DecodeString(normalized)
	if err != nil {
		return nil, decodeError(err)
	}

	reader := flate.NewReader(bytes.NewReader(compressed))
	defer func() { _ = reader.Close() }()

	document, err := io.ReadAll(io.LimitReader(reader, decompressLimit))
	if err != nil {
		return nil, decodeError(err)
	}

	var session game.Session
	if err := json.Unmarshal(document, &session); err != nil {
		return nil, decodeError(err)
	}
	if len(session.Players) == 0 {
		return nil, decodeError(nil)
	}
	if session.Events == nil {
		session.Events = []game.Event{}
	}
	return &session, nil
}

// BuildShareURL embeds the encoded session in the base link.
func BuildShareURL(base string, session *game.Session) (string, error) {
	payload, err := Encode(session)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid share base url")
	}
	query := parsed.Query()
	query.Set(shareParam, payload)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// DecodeShareURL extracts and decodes the session payload from a share link.
// Bare payloads without a URL around them are accepted too.
func DecodeShareURL(raw string) (*game.Session, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, decodeError(nil)
	}

	if parsed, err := url.Parse(trimmed); err == nil {
		if payload := parsed.Query().Get(shareParam); payload != "" {
			return Decode(payload)
		}
	}
	return Decode(trimmed)
}

func normalizePayload(payload string) string {
	cleaned := strings.TrimSpace(payload)
	cleaned = strings.ReplaceAll(cleaned, " ", "+")
	cleaned = strings.ReplaceAll(cleaned, "+", "-")
	cleaned = strings.ReplaceAll(cleaned, "/", "_")
	return strings.TrimRight(cleaned, "=")
}

func decodeError(err error) error {
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "no session decoded")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "no session decoded")
}
