// Package models holds the view data structures shared by handlers and
// templates.
package models

import "time"

// ObjectEntry is one image in a directory listing. Entries are produced
// fresh on every listing and carry no identity across requests.
type ObjectEntry struct {
	Key             string
	DisplayName     string
	Size            int64
	FormattedSize   string
	LastModified    time.Time
	ModifiedDisplay string
}

// FolderEntry is a common prefix rendered as a subdirectory.
type FolderEntry struct {
	Name   string // last path segment, no trailing slash
	Prefix string // full prefix including trailing slash
}

// Breadcrumb is one clickable segment of the current virtual path. Query is
// the browsing state query string that navigates to that segment.
type Breadcrumb struct {
	Name  string
	Query string
}

// Record is one recorded object row from the Postgres table.
type Record struct {
	Bucket        string
	ObjectPath    string
	ETag          string
	Size          int64
	FormattedSize string
	LastModified  time.Time
	RecordedAt    time.Time
}
