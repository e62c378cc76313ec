// Package browse models the virtual directory view over a bucket's flat key
// namespace: path arithmetic, pagination, and the per-request browsing state.
//
// A virtual path is either "" (the bucket root) or a slash-separated string
// ending in "/", e.g. "photos/2023/". It is also, verbatim, the prefix passed
// to the backend's delimiter listing; there are no directory objects behind
// it and no mutable tree is ever built.
package browse

import "strings"

// Join appends one child segment to a virtual path. The child must be a
// single segment: embedded slashes are stripped rather than letting a caller
// smuggle deeper paths through.
func Join(path, child string) string {
	child = strings.ReplaceAll(child, "/", "")
	if child == "" {
		return path
	}
	return path + child + "/"
}

// Parent strips the last segment from a virtual path. The root is its own
// parent, so calling Parent at the top is a no-op rather than an error.
func Parent(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	if trimmed == "" {
		return ""
	}
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ""
	}
	return trimmed[:idx+1]
}

// ToPrefix converts a virtual path into the listing prefix. The two are the
// same string; the root maps to the empty prefix, meaning "top of bucket".
func ToPrefix(path string) string {
	return path
}

// BaseName returns the last segment of a key or prefix, without any trailing
// separator. Used for display names in listings and breadcrumbs.
func BaseName(key string) string {
	key = strings.TrimSuffix(key, "/")
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// Clean normalises untrusted path input from a query parameter: no leading
// slash, no traversal segments, and a trailing slash unless empty.
func Clean(raw string) string {
	raw = strings.TrimPrefix(raw, "/")
	if raw == "" {
		return ""
	}
	var parts []string
	for _, seg := range strings.Split(strings.TrimSuffix(raw, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "/") + "/"
}
