package page

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/a-h/templ"
	"github.com/joy-dx/goajax/utils"
)

// Page is the document and window surface the request core touches.
type Page interface {
	Meta(name string) (string, bool)
	SetMeta(name, content string)
	Title() string
	SetTitle(title string)
	ScrollToTop()
	HasAsset(kind utils.AssetKind, src string) bool
	AppendAsset(kind utils.AssetKind, src string)
	RemoveAsset(kind utils.AssetKind, src string) bool
	// Redirect replaces the location, Reload reloads the current one.
	Redirect(url string)
	Reload()
}

type Asset struct {
	Kind utils.AssetKind
	Src  string
}

// Memory is an in process page. It records location changes instead of
// performing them.
type Memory struct {
	mu        sync.RWMutex
	meta      map[string]string
	title     string
	assets    []Asset
	scrollTop int
	redirects []string
	reloads   int
}

func NewMemory() *Memory {
	return &Memory{meta: make(map[string]string)}
}

func (m *Memory) Meta(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.meta[name]
	return v, ok
}

func (m *Memory) SetMeta(name, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[name] = content
}

func (m *Memory) Title() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title
}

func (m *Memory) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
}

func (m *Memory) ScrollToTop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrollTop++
}

// ScrollTops counts scroll to top requests.
func (m *Memory) ScrollTops() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scrollTop
}

func (m *Memory) HasAsset(kind utils.AssetKind, src string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(kind, src) >= 0
}

func (m *Memory) AppendAsset(kind utils.AssetKind, src string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = append(m.assets, Asset{Kind: kind, Src: src})
}

func (m *Memory) RemoveAsset(kind utils.AssetKind, src string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(kind, src)
	if i < 0 {
		return false
	}
	m.assets = append(m.assets[:i], m.assets[i+1:]...)
	return true
}

func (m *Memory) indexOf(kind utils.AssetKind, src string) int {
	for i, a := range m.assets {
		if a.Kind == kind && a.Src == src {
			return i
		}
	}
	return -1
}

// Assets returns a copy of the head asset tags in document order.
func (m *Memory) Assets() []Asset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Asset(nil), m.assets...)
}

func (m *Memory) Redirect(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirects = append(m.redirects, url)
}

func (m *Memory) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
}

func (m *Memory) Redirects() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.redirects...)
}

func (m *Memory) Reloads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reloads
}

// Head renders the document head as markup.
func (m *Memory) Head() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m.mu.RLock()
		defer m.mu.RUnlock()

		if _, err := fmt.Fprintf(w, "<title>%s</title>", templ.EscapeString(m.title)); err != nil {
			return err
		}
		names := make([]string, 0, len(m.meta))
		for name := range m.meta {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			attr := "http-equiv"
			if name == "csrf-token" {
				attr = "name"
			}
			if _, err := fmt.Fprintf(w, `<meta %s="%s" content="%s">`,
				attr, templ.EscapeString(name), templ.EscapeString(m.meta[name])); err != nil {
				return err
			}
		}
		for _, a := range m.assets {
			var err error
			switch a.Kind {
			case utils.AssetStylesheet:
				_, err = fmt.Fprintf(w, `<link rel="stylesheet" type="text/css" href="%s">`, templ.EscapeString(a.Src))
			case utils.AssetScript:
				_, err = fmt.Fprintf(w, `<script type="text/javascript" src="%s"></script>`, templ.EscapeString(a.Src))
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
