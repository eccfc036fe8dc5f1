package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	nethttp "net/http"
	"strings"
	"sync"

	"github.com/mgpai22/captionit/internal/caption"
	"github.com/mgpai22/captionit/internal/logging"
	"github.com/mgpai22/captionit/internal/notice"
	"github.com/mgpai22/captionit/internal/session"
	"github.com/mgpai22/captionit/internal/subtitle"
	"github.com/mgpai22/captionit/internal/track"
)

const maxImportBytes = 10 << 20

// Options configures the preview page.
type Options struct {
	// played by the page; never fetched by the server. Required.
	MediaURL      string
	TrackLanguage string
	TrackLabel    string
	Logger        *logging.Logger
}

type server struct {
	// serializes every session call and the flash list
	mu      sync.Mutex
	session *session.Session
	notices *notice.Recorder
	flash   []notice.Notice

	registry *track.Registry
	logger   *logging.Logger
	opts     Options
	tpl      *template.Template
}

// NewServer creates the preview handler for one editing session. notices
// must be the recorder the session reports to; every request drains it.
func NewServer(
	sess *session.Session,
	notices *notice.Recorder,
	registry *track.Registry,
	opts Options,
) nethttp.Handler {
	if opts.TrackLanguage == "" {
		opts.TrackLanguage = "en"
	}
	if opts.TrackLabel == "" {
		opts.TrackLabel = "English"
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	tpl := template.Must(template.New("page").Funcs(template.FuncMap{
		"ts":  subtitle.FormatTimestamp,
		"inc": func(i int) int { return i + 1 },
	}).Parse(pageTpl))

	s := &server{
		session:  sess,
		notices:  notices,
		registry: registry,
		logger:   opts.Logger,
		opts:     opts,
		tpl:      tpl,
	}

	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /health", HealthHandler())
	mux.HandleFunc("GET /captions", s.handleList)
	mux.HandleFunc("POST /captions", s.handleAdd)
	mux.HandleFunc("DELETE /captions", s.handleClear)
	mux.HandleFunc("POST /captions/import", s.handleImport)
	mux.HandleFunc("GET /tracks/{file}", s.handleTrack)
	return s.logRequests(mux)
}

type pageData struct {
	MediaURL string
	TrackURL string
	Language string
	Label    string
	Captions []caption.Entry
	Skipped  []subtitle.Skip
	Notices  []notice.Notice
}

func (s *server) handleIndex(w nethttp.ResponseWriter, r *nethttp.Request) {
	s.mu.Lock()
	data := pageData{
		MediaURL: s.opts.MediaURL,
		TrackURL: s.session.TrackURL(),
		Language: s.opts.TrackLanguage,
		Label:    s.opts.TrackLabel,
		Captions: s.session.Entries(),
		Notices:  append(s.flash, s.notices.Drain()...),
	}
	if t := s.session.Track(); t != nil {
		data.Skipped = t.Skipped
	}
	s.flash = nil
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		s.logger.Warnw("Failed to render page", "error", err)
	}
}

type captionsResponse struct {
	Captions []caption.Entry `json:"captions"`
	Track    string          `json:"track"`
	State    string          `json:"state"`
	Skipped  []subtitle.Skip `json:"skipped"`
}

func (s *server) handleList(w nethttp.ResponseWriter, r *nethttp.Request) {
	s.mu.Lock()
	resp := captionsResponse{
		Captions: s.session.Entries(),
		Track:    s.session.TrackURL(),
		State:    s.session.State().String(),
		Skipped:  []subtitle.Skip{},
	}
	if t := s.session.Track(); t != nil && len(t.Skipped) > 0 {
		resp.Skipped = t.Skipped
	}
	s.mu.Unlock()

	if resp.Captions == nil {
		resp.Captions = []caption.Entry{}
	}
	writeJSON(w, nethttp.StatusOK, resp)
}

type mutationResponse struct {
	Caption  *caption.Entry  `json:"caption,omitempty"`
	Captions int             `json:"captions"`
	Notices  []notice.Notice `json:"notices"`
}

func (s *server) handleAdd(w nethttp.ResponseWriter, r *nethttp.Request) {
	s.mu.Lock()
	entry, err := s.session.Add(
		r.PostFormValue("text"),
		r.PostFormValue("startTime"),
		r.PostFormValue("endTime"),
	)
	resp := s.drain()
	s.mu.Unlock()

	if errors.Is(err, session.ErrClosed) {
		httpError(w, nethttp.StatusServiceUnavailable, "session closed")
		return
	}
	if s.redirectToPage(w, r, resp.Notices) {
		return
	}
	if err != nil {
		writeJSON(w, nethttp.StatusUnprocessableEntity, resp)
		return
	}
	resp.Caption = &entry
	writeJSON(w, nethttp.StatusCreated, resp)
}

func (s *server) handleImport(w nethttp.ResponseWriter, r *nethttp.Request) {
	r.Body = nethttp.MaxBytesReader(w, r.Body, maxImportBytes)

	body, closeBody, err := importBody(r)
	if err != nil {
		httpError(w, nethttp.StatusBadRequest, err.Error())
		return
	}
	defer closeBody()

	s.mu.Lock()
	err = s.session.Import(body)
	resp := s.drain()
	s.mu.Unlock()

	if errors.Is(err, session.ErrClosed) {
		httpError(w, nethttp.StatusServiceUnavailable, "session closed")
		return
	}
	if s.redirectToPage(w, r, resp.Notices) {
		return
	}
	if err != nil {
		writeJSON(w, nethttp.StatusBadRequest, resp)
		return
	}
	writeJSON(w, nethttp.StatusOK, resp)
}

func (s *server) handleClear(w nethttp.ResponseWriter, r *nethttp.Request) {
	s.mu.Lock()
	err := s.session.Clear()
	resp := s.drain()
	s.mu.Unlock()

	if errors.Is(err, session.ErrClosed) {
		httpError(w, nethttp.StatusServiceUnavailable, "session closed")
		return
	}
	writeJSON(w, nethttp.StatusOK, resp)
}

func (s *server) handleTrack(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := track.IDFromFile(r.PathValue("file"))
	if !ok {
		httpError(w, nethttp.StatusNotFound, "track not found")
		return
	}
	doc, ok := s.registry.Lookup(id)
	if !ok {
		httpError(w, nethttp.StatusNotFound, "track not found")
		return
	}
	w.Header().Set("Content-Type", subtitle.MIMEType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(doc)
}

// must be called with s.mu held
func (s *server) drain() mutationResponse {
	notices := s.notices.Drain()
	if notices == nil {
		notices = []notice.Notice{}
	}
	return mutationResponse{
		Captions: len(s.session.Entries()),
		Notices:  notices,
	}
}

// Browser form posts get a redirect back to the page, which shows the
// notices once.
func (s *server) redirectToPage(
	w nethttp.ResponseWriter,
	r *nethttp.Request,
	notices []notice.Notice,
) bool {
	if !strings.Contains(r.Header.Get("Accept"), "text/html") {
		return false
	}
	s.mu.Lock()
	s.flash = append(s.flash, notices...)
	s.mu.Unlock()
	nethttp.Redirect(w, r, "/", nethttp.StatusSeeOther)
	return true
}

// importBody returns the uploaded "file" part of a multipart form, or the
// raw request body for any other content type.
func importBody(r *nethttp.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("missing upload field %q: %w", "file", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func (s *server) logRequests(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s.logger.Debugw("Request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w nethttp.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w nethttp.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
