package sharing

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/lucabarbieri/bestia-backend/pkg/errors"
	"github.com/lucabarbieri/bestia-backend/pkg/enums"
	"github.com/lucabarbieri/bestia-backend/pkg/game"
)

func sampleSession(t *testing.T, eventCount int) *game.Session {
	t.Helper()
	session := &game.Session{
		ID:       uuid.New(),
		Piatto:   decimal.NewFromFloat(0.30),
		Currency: "EUR",
		Players: []game.Player{
			game.NewPlayer("Luca"),
			game.NewPlayer("Marco"),
			game.NewPlayer("Anna"),
		},
		Events: []game.Event{},
	}
	for i := 0; i < eventCount; i++ {
		event := game.NewEvent(enums.EventTypeRoundEnd,
			[]game.Transaction{
				{PlayerID: session.Players[0].ID, Amount: decimal.NewFromFloat(0.20)},
				{PlayerID: session.Players[1].ID, Amount: decimal.NewFromFloat(-0.20)},
			},
			&game.EventMetadata{
				DealerPlayerID: session.Players[2].ID,
				Prese: game.Prese{
					session.Players[0].ID: 2,
					session.Players[1].ID: 1,
				},
			},
		)
		session.Events = append(session.Events, event)
	}
	return session
}

func TestCodecRoundTrip(t *testing.T) {
	for _, eventCount := range []int{0, 1, 7} {
		session := sampleSession(t, eventCount)

		payload, err := Encode(session)
		require.NoError(t, err)
		assert.NotContains(t, payload, "=")
		assert.NotContains(t, payload, "+")
		assert.NotContains(t, payload, "/")

		decoded, err := Decode(payload)
		require.NoError(t, err)
		assert.Equal(t, session.ID, decoded.ID)
		assert.True(t, decoded.Piatto.Equal(session.Piatto))
		require.Len(t, decoded.Players, len(session.Players))
		require.Len(t, decoded.Events, eventCount)
		for i, event := range decoded.Events {
			assert.Equal(t, session.Events[i].ID, event.ID)
			require.NotNil(t, event.Metadata)
			assert.Equal(t, session.Events[i].Metadata.Prese, event.Metadata.Prese)
		}
	}
}

func TestDecodeNormalizesPaddingAndAlphabet(t *testing.T) {
	session := sampleSession(t, 2)
	payload, err := Encode(session)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	require.NoError(t, err)

	// Standard alphabet with padding, as older exports produced.
	standard := base64.StdEncoding.EncodeToString(raw)

	decoded, err := Decode(standard)
	require.NoError(t, err)
	assert.Equal(t, session.ID, decoded.ID)
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	for _, payload := range []string{
		"",
		"   ",
		"!!!not-base64!!!",
		base64.RawURLEncoding.EncodeToString([]byte("not deflate data")),
	} {
		_, err := Decode(payload)
		require.Error(t, err, "payload %q", payload)
		pkgErr := pkgerrors.As(err)
		require.NotNil(t, pkgErr)
		assert.Equal(t, pkgerrors.CodeValidation, pkgErr.Code())
	}
}

func TestShareURLRoundTrip(t *testing.T) {
	session := sampleSession(t, 3)

	link, err := BuildShareURL("https://bestia.app/join", session)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://bestia.app/join?g="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	require.NotEmpty(t, parsed.Query().Get("g"))

	decoded, err := DecodeShareURL(link)
	require.NoError(t, err)
	assert.Equal(t, session.ID, decoded.ID)

	// A bare payload works too.
	bare, err := DecodeShareURL(parsed.Query().Get("g"))
	require.NoError(t, err)
	assert.Equal(t, session.ID, bare.ID)
}
