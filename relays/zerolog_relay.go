package relays

import (
	"io"
	"os"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZerologRelay writes relay events as structured log lines.
type ZerologRelay struct {
	logger zerolog.Logger
}

func NewZerologRelay(logger zerolog.Logger) *ZerologRelay {
	return &ZerologRelay{logger: logger}
}

// NewFileRelay logs to the console and to a size rotated file. An empty path
// only logs to the console.
func NewFileRelay(path string, level zerolog.Level) *ZerologRelay {
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if path != "" {
		w = zerolog.MultiLevelWriter(w, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}
	return NewZerologRelay(zerolog.New(w).Level(level).With().Timestamp().Logger())
}

func (r *ZerologRelay) Debug(data relayDTO.RelayEventInterface) {
	r.write(r.logger.Debug(), data)
}

func (r *ZerologRelay) Info(data relayDTO.RelayEventInterface) {
	r.write(r.logger.Info(), data)
}

func (r *ZerologRelay) Warn(data relayDTO.RelayEventInterface) {
	r.write(r.logger.Warn(), data)
}

func (r *ZerologRelay) Error(data relayDTO.RelayEventInterface) {
	r.write(r.logger.Error(), data)
}

// Fatal is logged at fatal level without exiting the process.
func (r *ZerologRelay) Fatal(data relayDTO.RelayEventInterface) {
	r.write(r.logger.WithLevel(zerolog.FatalLevel), data)
}

func (r *ZerologRelay) Meta(data relayDTO.RelayEventInterface) {
	r.write(r.logger.Trace().Bool("meta", true), data)
}

func (r *ZerologRelay) write(ev *zerolog.Event, data relayDTO.RelayEventInterface) {
	if ev == nil || data == nil {
		return
	}
	ev = ev.
		Str("channel", string(data.RelayChannel())).
		Str("type", string(data.RelayType()))
	for _, attr := range data.ToSlog() {
		if attr.Key == "msg" {
			continue
		}
		ev = ev.Str(attr.Key, attr.Value.String())
	}
	ev.Msg(data.Message())
}
