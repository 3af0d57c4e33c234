package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flokiorg/storehub/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg, err := config.NewConfig(&config.AppConfig{
		GithubAPIBaseUrl:   server.URL,
		GithubToken:        "test-token",
		CatalogRepoOwner:   "flokiorg",
		CatalogRepoName:    "lokihub-store",
		CatalogRepoBranch:  "main",
		CatalogFilePath:    "apps.json",
		CatalogAuthorName:  "storehub",
		CatalogAuthorEmail: "storehub@flokicoin.org",
	})
	require.NoError(t, err)
	return NewClient(cfg)
}

func TestFetchDocument(t *testing.T) {
	document := []byte(`{"apps":[{"id":"a","name":"Alpha"}]}`)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/repos/flokiorg/lokihub-store/contents/apps.json", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		// the contents API wraps base64 at 60 columns
		encoded := base64.StdEncoding.EncodeToString(document)
		wrapped := encoded[:20] + "\n" + encoded[20:] + "\n"
		json.NewEncoder(w).Encode(map[string]string{
			"content":  wrapped,
			"encoding": "base64",
			"sha":      "abc123",
		})
	}))

	doc, err := client.FetchDocument(context.Background())
	require.NoError(t, err)
	require.Equal(t, document, doc.Content)
	require.False(t, doc.Token.IsZero())
	require.Equal(t, "abc123", doc.Token.String())
}

func TestFetchDocument_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchDocument(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchDocument_ServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchDocument(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrConflict)
}

func TestWriteDocument_Conditional(t *testing.T) {
	content := []byte(`{"apps":[]}`)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/flokiorg/lokihub-store/contents/apps.json", r.URL.Path)

		var body struct {
			Message string `json:"message"`
			Content string `json:"content"`
			Branch  string `json:"branch"`
			SHA     string `json:"sha"`
			Author  struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"author"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "update catalog", body.Message)
		assert.Equal(t, "abc123", body.SHA)
		assert.Equal(t, "main", body.Branch)
		assert.Equal(t, "storehub", body.Author.Name)

		decoded, err := base64.StdEncoding.DecodeString(body.Content)
		require.NoError(t, err)
		assert.Equal(t, content, decoded)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": map[string]string{"sha": "def456"},
		})
	}))

	// obtain a real token first; tokens cannot be fabricated
	fetchClient := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"content": base64.StdEncoding.EncodeToString(content),
			"sha":     "abc123",
		})
	}))
	doc, err := fetchClient.FetchDocument(context.Background())
	require.NoError(t, err)

	newToken, err := client.WriteDocument(context.Background(), content, doc.Token, "update catalog")
	require.NoError(t, err)
	require.Equal(t, "def456", newToken.String())
}

func TestWriteDocument_UnconditionalCreate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// zero token: no sha field at all
		_, hasSHA := body["sha"]
		assert.False(t, hasSHA)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": map[string]string{"sha": "first"},
		})
	}))

	newToken, err := client.WriteDocument(context.Background(), []byte(`{"apps":[]}`), VersionToken{}, "create catalog")
	require.NoError(t, err)
	require.Equal(t, "first", newToken.String())
}

func TestWriteDocument_StaleTokenConflicts(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusUnprocessableEntity} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"message": "is at deadbeef but expected abc123"})
		}))

		_, err := client.WriteDocument(context.Background(), []byte(`{"apps":[]}`), VersionToken{}, "update catalog")
		require.ErrorIs(t, err, ErrConflict, "status %d", status)
	}
}

func TestWriteDocument_ServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.WriteDocument(context.Background(), []byte(`{"apps":[]}`), VersionToken{}, "update catalog")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrConflict)
}
