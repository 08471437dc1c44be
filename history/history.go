package history

import (
	"fmt"
	"sync"

	"github.com/joy-dx/goajax/dto"
	"github.com/vmihailenco/msgpack/v5"
)

// Backend is the navigation history the coordinator pushes into.
type Backend interface {
	PushState(state *dto.HistoryState, title, url string) error
	ReplaceState(state *dto.HistoryState, title, url string) error
	// State decodes the current entry, nil when it carries none.
	State() (*dto.HistoryState, error)
	URL() string
	OnPopState(fn func(state *dto.HistoryState))
	// OnDiscard receives the state of every entry that can no longer be
	// navigated to: forward entries dropped by a push and replaced states.
	OnDiscard(fn func(state *dto.HistoryState))
}

type entry struct {
	url   string
	title string
	state []byte
}

// Memory is a session history kept in process. States are stored msgpack
// encoded so nothing but plain data survives a push.
type Memory struct {
	mu       sync.Mutex
	entries  []entry
	index    int
	listener func(state *dto.HistoryState)
	discard  func(state *dto.HistoryState)
}

// NewMemory starts a history whose only entry is url with no state.
func NewMemory(url string) *Memory {
	return &Memory{entries: []entry{{url: url}}}
}

func encodeState(state *dto.HistoryState) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	packed, err := msgpack.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode history state: %w", err)
	}
	return packed, nil
}

func decodeState(packed []byte) (*dto.HistoryState, error) {
	if len(packed) == 0 {
		return nil, nil
	}
	var state dto.HistoryState
	if err := msgpack.Unmarshal(packed, &state); err != nil {
		return nil, fmt.Errorf("decode history state: %w", err)
	}
	return &state, nil
}

// PushState drops every forward entry and appends a new current one. An
// empty url keeps the current location.
func (m *Memory) PushState(state *dto.HistoryState, title, url string) error {
	packed, err := encodeState(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if url == "" {
		url = m.entries[m.index].url
	}
	dropped := make([][]byte, 0, len(m.entries)-m.index-1)
	for _, e := range m.entries[m.index+1:] {
		dropped = append(dropped, e.state)
	}
	m.entries = append(m.entries[:m.index+1], entry{url: url, title: title, state: packed})
	m.index++
	discard := m.discard
	m.mu.Unlock()

	notifyDiscard(discard, dropped...)
	return nil
}

func (m *Memory) ReplaceState(state *dto.HistoryState, title, url string) error {
	packed, err := encodeState(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	cur := &m.entries[m.index]
	replaced := cur.state
	if url != "" {
		cur.url = url
	}
	cur.title = title
	cur.state = packed
	discard := m.discard
	m.mu.Unlock()

	notifyDiscard(discard, replaced)
	return nil
}

// notifyDiscard skips entries without a state. States that fail to decode
// carry nothing to release.
func notifyDiscard(fn func(state *dto.HistoryState), packed ...[]byte) {
	if fn == nil {
		return
	}
	for _, p := range packed {
		if state, err := decodeState(p); err == nil && state != nil {
			fn(state)
		}
	}
}

func (m *Memory) State() (*dto.HistoryState, error) {
	m.mu.Lock()
	packed := m.entries[m.index].state
	m.mu.Unlock()
	return decodeState(packed)
}

func (m *Memory) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index].url
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) OnPopState(fn func(state *dto.HistoryState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = fn
}

func (m *Memory) OnDiscard(fn func(state *dto.HistoryState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discard = fn
}

func (m *Memory) Back() (bool, error)    { return m.Go(-1) }
func (m *Memory) Forward() (bool, error) { return m.Go(1) }

// Go moves delta entries and delivers the popstate of the new entry. It
// reports false when the move would leave the history.
func (m *Memory) Go(delta int) (bool, error) {
	m.mu.Lock()
	target := m.index + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return false, nil
	}
	m.index = target
	packed := m.entries[target].state
	listener := m.listener
	m.mu.Unlock()

	state, err := decodeState(packed)
	if err != nil {
		return true, err
	}
	if listener != nil {
		listener(state)
	}
	return true, nil
}
