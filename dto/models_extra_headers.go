package dto

import (
	"fmt"
	"sort"
	"strings"
)

// ExtraHeaders is sent with every request of a service. As a flag value it
// parses comma separated key=value pairs.
type ExtraHeaders map[string]string

// String renders the pairs sorted by name, in the form Set accepts.
func (e ExtraHeaders) String() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+e[name])
	}
	return strings.Join(pairs, ",")
}

func (e ExtraHeaders) Set(s string) error {
	for _, pair := range strings.Split(s, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("header %q: expected key=value", pair)
		}
		e[name] = strings.TrimSpace(value)
	}
	return nil
}

func (e ExtraHeaders) Type() string {
	return "ExtraHeaders"
}
