// wardrive-maint - coverage service maintenance trigger
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package maintenancetest provides an in-process stand-in for the coverage
// service's maintenance endpoints.
package maintenancetest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Default bodies mirror the summaries the coverage service reports.
const (
	ConsolidateBody = `{"coverage_entites_to_update":2,"samples_to_update":5,"merged_ok":2,"merged_fail":0,` +
		`"archive_ok":5,"archive_fail":0,"delete_ok":5,"delete_fail":0,"delete_skip":0}`
	CleanUpBody = `{"deleted_stale_repeaters":1,"deleted_dupe_repeaters":3}`
)

// Call is one request received by the Server.
type Call struct {
	Method        string
	Path          string
	Query         url.Values
	RequestID     string
	Authorization string
}

type response struct {
	status int
	body   string
}

// Server records maintenance calls and answers with canned responses.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	calls     []Call
	responses map[string]response
}

// NewServer starts a Server answering 200 with the default bodies.
func NewServer() *Server {
	s := &Server{
		responses: map[string]response{
			"/consolidate": {status: http.StatusOK, body: ConsolidateBody},
			"/clean-up":    {status: http.StatusOK, body: CleanUpBody},
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/consolidate", s.handle)
	r.Post("/clean-up", s.handle)

	s.Server = httptest.NewServer(r)
	return s
}

// SetResponse changes what the Server answers on path.
func (s *Server) SetResponse(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = response{status: status, body: body}
}

// Calls returns a copy of the calls received so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		RequestID:     r.Header.Get("X-Request-ID"),
		Authorization: r.Header.Get("Authorization"),
	})
	resp := s.responses[r.URL.Path]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}
