package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	code := Encode("reg-123", "Alice", "Go Meetup")
	assert.Equal(t, "TICKET|reg-123|Alice|Go Meetup", code)
}

func TestDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		title string
	}{
		{"plain title", "Go Meetup"},
		{"empty title", ""},
		{"title with one pipe", "Hack | Night"},
		{"title with many pipes", "a|b|c|d"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := Decode(Encode("reg-123", "Alice", tc.title))
			require.NotNil(t, id)
			assert.Equal(t, "reg-123", id.TicketID)
			assert.Equal(t, "Alice", id.UserName)
			assert.Equal(t, tc.title, id.EventTitle)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"wrong prefix", "BADGE|reg-123|Alice|Go Meetup"},
		{"lowercase prefix", "ticket|reg-123|Alice|Go Meetup"},
		{"too few tokens", "TICKET|reg-123|Alice"},
		{"prefix only", "TICKET"},
		{"random text", "hello world"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, Decode(tc.raw))
		})
	}
}

func TestRenderQR(t *testing.T) {
	png, err := RenderQR(Encode("reg-123", "Alice", "Go Meetup"), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
