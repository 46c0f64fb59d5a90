// Package gitcontent is the boundary to the upstream content provider
// the authorization engine gates. Only reads (file content and
// directory listings) cross it.
package gitcontent

import "context"

// Entry is one item of a directory listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	Size int64  `json:"size,omitempty"`
	SHA  string `json:"sha,omitempty"`
}

// File is a single file read, content base64-encoded as the provider
// returns it.
type File struct {
	Entry
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Result is either a listing or a file.
type Result struct {
	IsDir   bool
	Entries []Entry
	File    *File
}

// Gateway fetches content on behalf of a caller credential.
type Gateway interface {
	Fetch(ctx context.Context, token, owner, repo, path string) (*Result, error)
}
