// Package remote wraps the GitHub contents API for a single catalog file.
// It is a pure I/O boundary: it never touches catalog state, and it never
// retries — retry policy belongs to the caller.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/flokiorg/storehub/config"
	"github.com/flokiorg/storehub/logger"
)

// VersionToken identifies the remote document revision a write assumes it is
// replacing (the GitHub blob sha). It is opaque outside this package so no
// other component can fabricate or compare tokens.
type VersionToken struct {
	sha string
}

func (t VersionToken) IsZero() bool {
	return t.sha == ""
}

func (t VersionToken) String() string {
	return t.sha
}

// RemoteDocument is the catalog file content plus the token required for the
// next conditional write.
type RemoteDocument struct {
	Content []byte
	Token   VersionToken
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	owner       string
	repo        string
	branch      string
	path        string
	authorName  string
	authorEmail string
}

func NewClient(cfg config.Config) *Client {
	env := cfg.GetEnv()
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     env.GithubAPIBaseUrl,
		token:       env.GithubToken,
		owner:       env.CatalogRepoOwner,
		repo:        env.CatalogRepoName,
		branch:      env.CatalogRepoBranch,
		path:        env.CatalogFilePath,
		authorName:  env.CatalogAuthorName,
		authorEmail: env.CatalogAuthorEmail,
	}
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type writeRequest struct {
	Message string       `json:"message"`
	Content string       `json:"content"`
	Branch  string       `json:"branch"`
	SHA     string       `json:"sha,omitempty"`
	Author  commitAuthor `json:"author"`
}

type commitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

func (c *Client) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, url.PathEscape(c.path))
}

// FetchDocument reads the current catalog file and its version token.
// Returns ErrNotFound when the file does not exist yet, which is a valid
// first-run outcome, not a transport failure.
func (c *Client) FetchDocument(ctx context.Context) (*RemoteDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL()+"?ref="+url.QueryEscape(c.branch), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog document: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("failed to fetch catalog document: %s", resp.Status)
	}

	var contents contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return nil, fmt.Errorf("failed to decode contents response: %w", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(stripNewlines(contents.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode document content: %w", err)
	}

	return &RemoteDocument{
		Content: decoded,
		Token:   VersionToken{sha: contents.SHA},
	}, nil
}

// WriteDocument replaces the catalog file. A non-zero expected token makes
// the write conditional: the API rejects it when the file has moved on, and
// that rejection surfaces as ErrConflict with no partial write. A zero token
// performs an unconditional write, used for first-ever creation and for an
// operator-initiated force push.
func (c *Client) WriteDocument(ctx context.Context, content []byte, expected VersionToken, message string) (VersionToken, error) {
	body := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
		SHA:     expected.sha,
		Author: commitAuthor{
			Name:  c.authorName,
			Email: c.authorEmail,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return VersionToken{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(), bytes.NewReader(payload))
	if err != nil {
		return VersionToken{}, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return VersionToken{}, fmt.Errorf("failed to write catalog document: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// stale sha: the remote file changed underneath us
		io.Copy(io.Discard, resp.Body)
		return VersionToken{}, ErrConflict
	default:
		return VersionToken{}, fmt.Errorf("failed to write catalog document: %s", resp.Status)
	}

	var written writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&written); err != nil {
		return VersionToken{}, fmt.Errorf("failed to decode write response: %w", err)
	}

	logger.Logger.Debug().Str("sha", written.Content.SHA).Msg("Catalog document written")
	return VersionToken{sha: written.Content.SHA}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "storehub")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// The contents API wraps base64 payloads at 60 columns.
func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
