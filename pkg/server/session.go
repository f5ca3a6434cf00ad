package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thomsbg/ripple/pkg/ripple"
)

// clientEvent is one inbound websocket message.
type clientEvent struct {
	// Type is "set" or "ping".
	Type string `json:"type"`

	// Key is the model key for set events.
	Key string `json:"key,omitempty"`

	// Value is the new value for set events.
	Value any `json:"value,omitempty"`
}

// serverFrame is one outbound websocket message.
type serverFrame struct {
	// Type is "frame", "pong", or "error".
	Type string `json:"type"`

	// HTML is the rendered view markup for frame messages.
	HTML string `json:"html,omitempty"`

	// Code and Message describe error messages.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// session owns one websocket connection and the view bound to it.
type session struct {
	server *Server
	conn   *websocket.Conn
	view   *ripple.View
	sched  *ripple.Scheduler
	logger *slog.Logger
	tracer trace.Tracer
}

// handleWS upgrades the connection, creates a view for it, and runs the
// session's read loop until the client disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sched := ripple.NewScheduler(
		ripple.WithSchedulerLogger(s.logger),
		ripple.WithSchedulerMetrics(s.collector),
	)
	view, err := s.family.Create(s.config.InitialData, ripple.WithViewScheduler(sched))
	if err != nil {
		s.logger.Error("view create failed", "error", err)
		conn.Close()
		return
	}

	sess := &session{
		server: s,
		conn:   conn,
		view:   view,
		sched:  sched,
		logger: s.logger.With("view", view.ID()),
		tracer: s.tracer,
	}
	sess.run(r.Context())
}

// run sends the initial frame and processes events until the connection
// closes. The view is destroyed on exit, cancelling any pending writes.
func (sess *session) run(ctx context.Context) {
	defer sess.conn.Close()
	defer sess.view.Destroy()

	if sess.server.config.FrameInterval > 0 {
		sess.sched.StartFrames(sess.server.config.FrameInterval)
		defer sess.sched.StopFrames()
	}

	sess.logger.Info("session started")
	if err := sess.sendFrame(); err != nil {
		return
	}

	for {
		sess.conn.SetReadDeadline(time.Now().Add(sess.server.config.ReadTimeout))
		_, msg, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Error("read error", "error", err)
			}
			sess.logger.Info("session closed")
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			sess.logger.Error("event decode error", "error", err)
			sess.send(serverFrame{Type: "error", Code: "bad_event", Message: "invalid event JSON"})
			continue
		}

		if err := sess.handleEvent(ctx, ev); err != nil {
			return
		}
	}
}

// handleEvent applies one client event and streams the resulting frame.
// The returned error is a write failure; event-level problems are reported
// to the client and logged instead.
func (sess *session) handleEvent(ctx context.Context, ev clientEvent) error {
	_, span := sess.tracer.Start(ctx, "ripple.event",
		trace.WithAttributes(
			attribute.String("ripple.event_type", ev.Type),
			attribute.String("ripple.key", ev.Key),
			attribute.String("ripple.view_id", strconv.FormatUint(sess.view.ID(), 10)),
		),
	)
	defer span.End()

	switch ev.Type {
	case "set":
		if err := sess.view.Set(ev.Key, ev.Value); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			sess.logger.Error("set failed", "key", ev.Key, "error", err)
			return sess.send(serverFrame{Type: "error", Code: "set_failed", Message: err.Error()})
		}
		applied := sess.sched.Flush()
		span.SetAttributes(attribute.Int("ripple.writes_applied", applied))
		span.SetStatus(codes.Ok, "")
		return sess.sendFrame()

	case "ping":
		span.SetStatus(codes.Ok, "")
		return sess.send(serverFrame{Type: "pong"})

	default:
		span.SetStatus(codes.Error, "unknown event type")
		sess.logger.Warn("unknown event type", "type", ev.Type)
		return sess.send(serverFrame{Type: "error", Code: "unknown_event", Message: "unknown event type " + strconv.Quote(ev.Type)})
	}
}

// sendFrame streams the view's current markup.
func (sess *session) sendFrame() error {
	return sess.send(serverFrame{Type: "frame", HTML: sess.view.El().OuterHTML()})
}

func (sess *session) send(f serverFrame) error {
	sess.conn.SetWriteDeadline(time.Now().Add(sess.server.config.WriteTimeout))
	if err := sess.conn.WriteJSON(f); err != nil {
		sess.logger.Error("write error", "error", err)
		return err
	}
	return nil
}
