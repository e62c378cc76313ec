package browse

import (
	"net/url"
	"strconv"
)

// State is the browsing position inside one bucket: current virtual path,
// current grid page, and the active search term. It is rebuilt from query
// parameters on every request, so concurrent sessions never share state;
// the URL is the session.
type State struct {
	Path   string
	Page   int
	Search string
}

// StateFromQuery decodes a State from request query parameters, sanitising
// the path and defaulting the page to 1.
func StateFromQuery(q url.Values) State {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return State{
		Path:   Clean(q.Get("path")),
		Page:   page,
		Search: q.Get("q"),
	}
}

// Query encodes the state back into query parameters, omitting defaults so
// URLs stay short.
func (s State) Query() string {
	q := url.Values{}
	if s.Path != "" {
		q.Set("path", s.Path)
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.Search != "" {
		q.Set("q", s.Search)
	}
	return q.Encode()
}

// Enter descends into a subdirectory. Navigation always lands on page 1;
// the search term is kept.
func (s State) Enter(subdir string) State {
	return State{Path: Join(s.Path, subdir), Page: 1, Search: s.Search}
}

// GoUp moves to the parent directory and resets to page 1.
func (s State) GoUp() State {
	return State{Path: Parent(s.Path), Page: 1, Search: s.Search}
}

// GoRoot jumps to the bucket root and resets to page 1.
func (s State) GoRoot() State {
	return State{Path: "", Page: 1, Search: s.Search}
}

// SetSearch replaces the search term and resets to page 1.
func (s State) SetSearch(term string) State {
	return State{Path: s.Path, Page: 1, Search: term}
}

// SetPage moves to page n, clamped to [1, totalPages]. Path and search are
// untouched; plain page navigation is the one transition that keeps its page.
func (s State) SetPage(n, totalPages int) State {
	if totalPages < 1 {
		totalPages = 1
	}
	if n < 1 {
		n = 1
	}
	if n > totalPages {
		n = totalPages
	}
	return State{Path: s.Path, Page: n, Search: s.Search}
}

// At returns a copy of the state positioned at a specific virtual path,
// used for breadcrumb links.
func (s State) At(path string) State {
	return State{Path: path, Page: 1, Search: s.Search}
}
