package catalog

import "encoding/json"

// App is one catalog entry. The id is caller-supplied and unique across the
// catalog; an empty Url means the app is not yet available.
type App struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Version     string `json:"version"`
	Url         string `json:"url,omitempty"`
	Repo        string `json:"repo,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Featured    bool   `json:"featured"`
}

// Document is the catalog file format shared with the remote store.
type Document struct {
	Apps []App `json:"apps"`
}

// ParseDocument decodes the catalog file. A missing or null apps field is an
// empty catalog, not an error.
func ParseDocument(content []byte) ([]App, error) {
	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	if doc.Apps == nil {
		return []App{}, nil
	}
	return doc.Apps, nil
}

// MarshalDocument encodes entries in the catalog file format, preserving
// order. The output is indented because the document is also hand-edited in
// the store repository.
func MarshalDocument(apps []App) ([]byte, error) {
	return json.MarshalIndent(Document{Apps: apps}, "", "  ")
}
