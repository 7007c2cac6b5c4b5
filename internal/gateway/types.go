package gateway

// Coordinate identifies a repository on the hosting service.
type Coordinate struct {
	Owner string
	Repo  string
}

// String returns "owner/repo".
func (c Coordinate) String() string {
	return c.Owner + "/" + c.Repo
}

// CacheKey returns the memo key for a listing of path ("" for the root).
func (c Coordinate) CacheKey(path string) string {
	return c.Owner + "/" + c.Repo + "/" + path
}

// EntryType is the kind of a directory listing item.
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// Entry is one item of a directory listing as returned by the contents API.
// DownloadURL is empty when the API reports null (directories, submodules).
type Entry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Type        EntryType `json:"type"`
	Size        int64     `json:"size"`
	HTMLURL     string    `json:"html_url"`
	DownloadURL string    `json:"download_url"`
}

// IsDir reports whether the entry is a directory. Every other type
// (file, symlink, submodule) is treated as a file.
func (e Entry) IsDir() bool {
	return e.Type == EntryDir
}
