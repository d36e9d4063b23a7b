// Package fakesleeper serves canned Sleeper API responses for tests.
package fakesleeper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
)

// Response is what the fake answers for one resource. Raw wins over Body.
type Response struct {
	Status int
	Body   any
	Raw    string
	// Gate, when set, blocks the handler until it is closed.
	Gate <-chan struct{}
}

type Server struct {
	s *httptest.Server

	mu       sync.Mutex
	leagues  map[string]Response
	matchups map[string]Response
	requests []string
}

func New() *Server {
	f := &Server{
		leagues:  make(map[string]Response),
		matchups: make(map[string]Response),
	}

	r := chi.NewRouter()
	r.Route("/v1/league/{leagueID}", func(r chi.Router) {
		r.Get("/", f.leagueHandler)
		r.Get("/matchups/{week}", f.matchupsHandler)
	})
	f.s = httptest.NewServer(r)

	return f
}

func (f *Server) Close() {
	f.s.Close()
}

func (f *Server) URL() string {
	return f.s.URL
}

func (f *Server) SetLeague(leagueID string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leagues[leagueID] = resp
}

func (f *Server) SetMatchups(leagueID string, week int, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchups[matchupKey(leagueID, week)] = resp
}

// Requests returns the decoded paths received so far, in arrival order.
func (f *Server) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *Server) leagueHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := param(r, "leagueID")

	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	resp, ok := f.leagues[leagueID]
	f.mu.Unlock()

	if !ok {
		// Sleeper answers unknown league ids with 200 and a null body.
		resp = Response{Raw: "null"}
	}
	serve(w, resp)
}

func (f *Server) matchupsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID := param(r, "leagueID")
	week, err := strconv.Atoi(param(r, "week"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	resp, ok := f.matchups[matchupKey(leagueID, week)]
	f.mu.Unlock()

	if !ok {
		resp = Response{Raw: "[]"}
	}
	serve(w, resp)
}

func serve(w http.ResponseWriter, resp Response) {
	if resp.Gate != nil {
		<-resp.Gate
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if resp.Raw != "" {
		_, _ = w.Write([]byte(resp.Raw))
		return
	}
	if resp.Body != nil {
		_ = jsoniter.NewEncoder(w).Encode(resp.Body)
	}
}

func param(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func matchupKey(leagueID string, week int) string {
	return fmt.Sprintf("%s/%d", leagueID, week)
}
