package types

// ProjectType identifies the ecosystem a project root was classified as.
type ProjectType string

const (
	TypeRust      ProjectType = "rust"
	TypeNode      ProjectType = "node"
	TypePython    ProjectType = "python"
	TypeGo        ProjectType = "go"
	TypeJava      ProjectType = "java"
	TypeDotNet    ProjectType = ".net"
	TypeTerraform ProjectType = "terraform"
	TypeAnsible   ProjectType = "ansible"
	TypeOther     ProjectType = "other"
)

// String returns the stable wire form of the type.
func (t ProjectType) String() string { return string(t) }

// SortKey selects the ordering of listing and query results.
type SortKey string

const (
	SortRecent SortKey = "recent"
	SortSize   SortKey = "size"
	SortName   SortKey = "name"
	SortType   SortKey = "type"
	SortLOC    SortKey = "loc"
)

// ParseSortKey maps a user-supplied string onto a SortKey, falling back to
// recency for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortRecent, SortSize, SortName, SortType, SortLOC:
		return SortKey(s)
	default:
		return SortRecent
	}
}

// ProjectRecord is one catalog row joined with its metrics. Pointer fields
// are null when the value was never computed or is unknowable for the
// project (for example size under the "none" size mode).
type ProjectRecord struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	Type         *string `json:"type"`
	IsVCS        bool    `json:"is_git_repo"`
	SizeBytes    *int64  `json:"size_bytes"`
	FilesCount   *int64  `json:"files_count"`
	LastEditedAt *int64  `json:"last_edited_at"`
	LOC          *int64  `json:"loc"`
}

// ProjectPage is one window of query results plus the total match count,
// which callers need to render pagination.
type ProjectPage struct {
	Items      []ProjectRecord `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalCount int             `json:"total_count"`
}

// LanguageCount is one row of a project's per-language code-line breakdown.
type LanguageCount struct {
	Language string `json:"language"`
	Code     int64  `json:"code"`
}

// VCSInfo carries repository metadata for a project. Each field is
// independently optional; readers populate what they can resolve.
type VCSInfo struct {
	LastCommitAt *int64  `json:"last_commit_at"`
	Branch       *string `json:"branch"`
	RemoteURL    *string `json:"remote_url"`
}

// Empty reports whether no field was resolved.
func (v VCSInfo) Empty() bool {
	return v.LastCommitAt == nil && v.Branch == nil && v.RemoteURL == nil
}
