// Package server builds xlsx documents from rows pushed over a websocket.
//
// A client opens /ws and sends JSON text messages:
//
//	{"type":"author","author":"Finance"}
//	{"type":"sheet","name":"Report","widths":[18,10]}
//	{"type":"row","values":["north",42,"=B1*2",null]}
//	{"type":"done"}
//
// Rows go to the most recently declared sheet, or to a default sheet when
// none was declared. On "done" the server answers with one binary message
// holding the xlsx archive and closes the connection normally. Each
// connection owns its own document.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/witanlabs/xlsxwriter/xlsx"
)

// DefaultReadLimit caps a single inbound message.
const DefaultReadLimit = 1 << 20

// DefaultSessionTimeout bounds one connection from accept to the final write.
const DefaultSessionTimeout = 5 * time.Minute

// Options configures a Server. Zero fields use the defaults above.
type Options struct {
	Author           string
	DefaultSheetName string
	ColumnWidth      float64 // applied to every column of sheets without explicit widths
	ReadLimit        int64
	SessionTimeout   time.Duration
	Logger           *slog.Logger
}

// Server serves the row ingestion endpoint.
type Server struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Server for opts.
func New(opts Options) *Server {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = DefaultReadLimit
	}
	if opts.SessionTimeout <= 0 {
		opts.SessionTimeout = DefaultSessionTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{opts: opts, logger: logger}
}

// Handler returns the HTTP routes: /ws for sessions and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Message is one inbound protocol message.
type Message struct {
	Type   string    `json:"type"`
	Author string    `json:"author,omitempty"`
	Name   string    `json:"name,omitempty"`
	Widths []float64 `json:"widths,omitempty"`
	Values []any     `json:"values,omitempty"`
}

// errorMessage is sent before a connection is closed because of bad input.
type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// protocolError is a client mistake; it closes with StatusUnsupportedData.
type protocolError struct {
	msg string
}

func (e *protocolError) Error() string { return e.msg }

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", slog.Any("error", err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(s.opts.ReadLimit)

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.SessionTimeout)
	defer cancel()

	log := s.logger.With(slog.String("remote", r.RemoteAddr))
	log.Debug("session started")

	sess := newSession(s.opts, log)
	defer sess.doc.Close()

	archive, err := sess.run(ctx, conn)
	if err != nil {
		var perr *protocolError
		status := websocket.StatusInternalError
		if errors.As(err, &perr) {
			status = websocket.StatusUnsupportedData
		} else if websocket.CloseStatus(err) != -1 {
			log.Debug("client closed session", slog.Any("error", err))
			return
		}
		log.Warn("session failed", slog.Any("error", err))
		_ = wsjson.Write(ctx, conn, errorMessage{Type: "error", Error: err.Error()})
		conn.Close(status, truncateReason(err.Error()))
		return
	}

	if err := conn.Write(ctx, websocket.MessageBinary, archive); err != nil {
		log.Warn("sending archive failed", slog.Any("error", err))
		return
	}
	log.Debug("session finished", slog.Int("bytes", len(archive)))
	conn.Close(websocket.StatusNormalClosure, "")
}

// truncateReason keeps a close reason within the 123 bytes a close frame allows.
func truncateReason(s string) string {
	if len(s) > 120 {
		return s[:120]
	}
	return s
}

type session struct {
	opts    Options
	log     *slog.Logger
	doc     *xlsx.Document
	current *xlsx.Sheet
}

func newSession(opts Options, log *slog.Logger) *session {
	return &session{
		opts: opts,
		log:  log,
		doc: xlsx.NewDocument(xlsx.Options{
			Author: opts.Author,
			Logger: log,
		}),
	}
}

// run reads messages until "done" and returns the rendered archive.
func (s *session) run(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return nil, err
		}
		if typ != websocket.MessageText {
			return nil, &protocolError{msg: "expected a text message"}
		}
		msg, err := decodeMessage(data)
		if err != nil {
			return nil, err
		}
		done, err := s.apply(msg)
		if err != nil {
			return nil, err
		}
		if done {
			return s.finish()
		}
	}
}

func decodeMessage(data []byte) (Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var msg Message
	if err := dec.Decode(&msg); err != nil {
		return Message{}, &protocolError{msg: fmt.Sprintf("invalid message: %v", err)}
	}
	return msg, nil
}

func (s *session) apply(msg Message) (bool, error) {
	switch msg.Type {
	case "author":
		s.doc.SetAuthor(msg.Author)
	case "sheet":
		sheet, err := s.doc.CreateSheet(msg.Name)
		if err != nil {
			return false, &protocolError{msg: err.Error()}
		}
		if len(msg.Widths) > 0 {
			sheet.SetColumnWidths(msg.Widths)
		}
		s.current = sheet
	case "row":
		if s.current == nil {
			if err := s.useDefaultSheet(); err != nil {
				return false, err
			}
		}
		s.current.WriteRowAny(msg.Values...)
	case "done":
		return true, nil
	default:
		return false, &protocolError{msg: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
	return false, nil
}

func (s *session) useDefaultSheet() error {
	if sheet, ok := s.doc.Sheet(s.defaultSheetName()); ok {
		s.current = sheet
		return nil
	}
	sheet, err := s.doc.CreateSheet(s.defaultSheetName())
	if err != nil {
		return &protocolError{msg: err.Error()}
	}
	s.current = sheet
	return nil
}

func (s *session) defaultSheetName() string {
	if s.opts.DefaultSheetName != "" {
		return s.opts.DefaultSheetName
	}
	return xlsx.DefaultSheetName
}

func (s *session) finish() ([]byte, error) {
	if len(s.doc.Sheets()) == 0 {
		if _, err := s.doc.WriteSheet(nil, s.defaultSheetName(), nil); err != nil {
			return nil, err
		}
	}
	if s.opts.ColumnWidth > 0 {
		for _, sheet := range s.doc.Sheets() {
			if sheet.HasColumnWidths() {
				continue
			}
			widths := make([]float64, sheet.ColumnCount())
			for i := range widths {
				widths[i] = s.opts.ColumnWidth
			}
			sheet.SetColumnWidths(widths)
		}
	}
	var buf bytes.Buffer
	if _, err := s.doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing archive: %w", err)
	}
	return buf.Bytes(), nil
}
