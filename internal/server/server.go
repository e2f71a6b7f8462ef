// Package server exposes decoded instances and a live navigator session
// over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/mazeviz/internal/export"
	"github.com/san-kum/mazeviz/internal/logging"
	"github.com/san-kum/mazeviz/internal/maze"
	"github.com/san-kum/mazeviz/internal/trace"
)

// Session is the navigator surface served under /session.
type Session interface {
	SeekFirst() error
	StepBack() error
	StepForward() (*trace.Step, error)
	SeekLast() error
	ToggleIndices()
	ToggleDistance()
	Frame() trace.Frame
	WinIndex() int
}

// Server holds what the handlers read. Session and Hub may be nil, which
// disables the /session and /events routes.
type Server struct {
	Decoder  *maze.Decoder
	Session  Session
	Hub      *Hub
	Gatherer prometheus.Gatherer
	CellSize int
	Logger   *slog.Logger
}

// FrameView is the JSON form of a frame.
type FrameView struct {
	Session  string       `json:"session"`
	Index    int          `json:"index"`
	MaxIndex int          `json:"max_index"`
	Len      int          `json:"len"`
	State    string       `json:"state"`
	Flags    trace.Flags  `json:"flags"`
	Disabled bool         `json:"disabled"`
	Won      bool         `json:"won"`
	Maze     maze.Decoded `json:"maze"`
}

func NewFrameView(f trace.Frame) FrameView {
	return FrameView{
		Session:  f.Session,
		Index:    f.Index,
		MaxIndex: f.MaxIndex,
		Len:      f.Len,
		State:    f.State.String(),
		Flags:    f.Flags,
		Disabled: f.Disabled,
		Won:      f.Won,
		Maze:     f.Maze,
	}
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	if s.Gatherer == nil {
		s.Gatherer = prometheus.DefaultGatherer
	}
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/trace", s.GetTrace)
	r.Route("/instances/{index}", func(r chi.Router) {
		r.Get("/", s.GetInstance)
		r.Get("/svg", s.GetInstanceSVG)
	})
	if s.Session != nil {
		r.Get("/session", s.GetSession)
		r.Post("/session/{command}", s.PostCommand)
	}
	if s.Hub != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	return r
}

type traceSummary struct {
	Instances int       `json:"instances"`
	Dims      maze.Dims `json:"dims"`
	WinIndex  *int      `json:"win_index,omitempty"`
}

// GetTrace handles GET /trace.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	sum := traceSummary{Instances: s.Decoder.Len(), Dims: s.Decoder.Dims()}
	if s.Session != nil {
		win := s.Session.WinIndex()
		sum.WinIndex = &win
	}
	s.writeJSON(w, sum)
}

// GetInstance handles GET /instances/{index}.
func (s *Server) GetInstance(w http.ResponseWriter, r *http.Request) {
	d, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, d)
}

// GetInstanceSVG handles GET /instances/{index}/svg. The indices and
// distance query flags turn on the overlays.
func (s *Server) GetInstanceSVG(w http.ResponseWriter, r *http.Request) {
	d, ok := s.decode(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	flags := trace.Flags{
		ShowIndices:  q.Has("indices"),
		ShowDistance: q.Has("distance"),
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(export.MazeToSVG(d, s.CellSize, flags)))
}

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, NewFrameView(s.Session.Frame()))
}

// PostCommand handles POST /session/{command}. Commands sent while a move is
// animating are accepted and ignored, like key presses.
func (s *Server) PostCommand(w http.ResponseWriter, r *http.Request) {
	var err error
	switch cmd := chi.URLParam(r, "command"); cmd {
	case "first":
		err = s.Session.SeekFirst()
	case "back":
		err = s.Session.StepBack()
	case "forward":
		_, err = s.Session.StepForward()
	case "last":
		err = s.Session.SeekLast()
	case "indices":
		s.Session.ToggleIndices()
	case "distance":
		s.Session.ToggleDistance()
	default:
		http.Error(w, fmt.Sprintf("unknown command: %s", cmd), http.StatusNotFound)
		return
	}
	if err != nil {
		var de *maze.DecodeError
		if errors.As(err, &de) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSONStatus(w, http.StatusAccepted, NewFrameView(s.Session.Frame()))
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	frames, cancel := s.Hub.Subscribe(16)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case f := <-frames:
			data, err := json.Marshal(NewFrameView(f))
			if err != nil {
				s.Logger.Error("encode frame", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: frame\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (maze.Decoded, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return maze.Decoded{}, false
	}
	if index < 0 || index >= s.Decoder.Len() {
		http.Error(w, fmt.Sprintf("index %d out of range [0, %d)", index, s.Decoder.Len()), http.StatusNotFound)
		return maze.Decoded{}, false
	}
	d, err := s.Decoder.Decode(index)
	if err != nil {
		s.Logger.Warn("decode failed", "index", index, "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return maze.Decoded{}, false
	}
	return d, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	s.writeJSONStatus(w, http.StatusOK, v)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "error", err)
	}
}
