package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	apps := []App{
		{ID: "a", Name: "Alpha", Description: "first", Category: "tools", Version: "1.0.0", Url: "https://example.com/a", Featured: true},
		{ID: "b", Name: "Beta", Category: "games", Version: "0.2.0", Repo: "https://github.com/flokiorg/beta", Icon: "beta.png"},
		{ID: "c", Name: "Gamma"},
	}

	content, err := MarshalDocument(apps)
	require.NoError(t, err)

	parsed, err := ParseDocument(content)
	require.NoError(t, err)
	require.Equal(t, apps, parsed)
}

func TestParseDocument_MissingAppsField(t *testing.T) {
	apps, err := ParseDocument([]byte(`{}`))
	require.NoError(t, err)
	require.NotNil(t, apps)
	require.Empty(t, apps)

	apps, err = ParseDocument([]byte(`{"apps":null}`))
	require.NoError(t, err)
	require.NotNil(t, apps)
	require.Empty(t, apps)
}

func TestParseDocument_Malformed(t *testing.T) {
	_, err := ParseDocument([]byte(`{"apps":`))
	require.Error(t, err)
}

func TestMarshalDocument_EmptyCatalog(t *testing.T) {
	content, err := MarshalDocument([]App{})
	require.NoError(t, err)
	require.JSONEq(t, `{"apps":[]}`, string(content))
}
