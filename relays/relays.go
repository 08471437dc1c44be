package relays

import (
	"fmt"
	"log/slog"

	"github.com/joy-dx/goajax/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

const (
	RlyAjaxChannel relayDTO.EventChannel = "ajax"

	RlyAjaxLogRef     relayDTO.EventRef = "ajax.log"
	RlyAjaxRequestRef relayDTO.EventRef = "ajax.request"
	RlyAjaxHistoryRef relayDTO.EventRef = "ajax.history"
	RlyAjaxShiftRef   relayDTO.EventRef = "ajax.shifter"
)

type RlyAjaxLog struct {
	Msg string
}

func (e RlyAjaxLog) RelayChannel() relayDTO.EventChannel { return RlyAjaxChannel }
func (e RlyAjaxLog) RelayType() relayDTO.EventRef        { return RlyAjaxLogRef }
func (e RlyAjaxLog) Message() string                     { return e.Msg }
func (e RlyAjaxLog) ToSlog() []slog.Attr {
	return []slog.Attr{slog.String("msg", e.Msg)}
}

// RlyAjaxEvent carries one notification of the request, history or shifter
// lifecycle.
type RlyAjaxEvent struct {
	Event      dto.EventType
	Key        string
	URL        string
	Method     string
	Status     int
	ReadyState dto.ReadyState
	Msg        string
}

func (e RlyAjaxEvent) RelayChannel() relayDTO.EventChannel { return RlyAjaxChannel }

func (e RlyAjaxEvent) RelayType() relayDTO.EventRef {
	switch e.Event {
	case dto.EventHistoryStart, dto.EventHistoryComplete, dto.EventHistorySuccess, dto.EventHistoryError:
		return RlyAjaxHistoryRef
	case dto.EventShifterStart, dto.EventShifterComplete, dto.EventShifterSuccess, dto.EventShifterError:
		return RlyAjaxShiftRef
	}
	return RlyAjaxRequestRef
}

func (e RlyAjaxEvent) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s %s %s (%d)", e.Event, e.Method, e.URL, e.Status)
}

func (e RlyAjaxEvent) ToSlog() []slog.Attr {
	return []slog.Attr{
		slog.String("event", string(e.Event)),
		slog.String("key", e.Key),
		slog.String("url", e.URL),
		slog.String("method", e.Method),
		slog.Int("status", e.Status),
		slog.String("ready_state", string(e.ReadyState)),
	}
}
