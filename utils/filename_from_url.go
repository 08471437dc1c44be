package utils

import (
	"net/url"
	"path"
	"strings"
)

// FilenameFromURL returns the unescaped last path segment of a relative or
// absolute URL, ignoring query and fragment. Directory URLs have no filename.
func FilenameFromURL(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	p := u.EscapedPath()
	if p == "" || strings.HasSuffix(p, "/") {
		return "", nil
	}
	name, err := url.PathUnescape(path.Base(p))
	if err != nil {
		return "", err
	}
	return name, nil
}
