// wardrive-maint - coverage service maintenance trigger
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package maintenance calls the coverage service's maintenance endpoints.
package maintenance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation names, also used as the JWT subject.
const (
	OpConsolidate = "consolidate"
	OpCleanUp     = "clean-up"
)

// CleanupRepeaters is the only clean-up category the service knows.
const CleanupRepeaters = "repeaters"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20 // 1 MiB

// HTTPClient abstracts HTTP operations. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result describes one maintenance call. It is returned even when the call
// fails so the caller can still log the target and request ID.
type Result struct {
	Operation  string
	URL        string
	RequestID  string
	StatusCode int // 0 if no response was received
	Payload    any // decoded JSON body on success
}

// Client issues maintenance requests against a single service host.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient HTTPClient
	tokens     *TokenSigner
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSigner attaches a bearer token to every request.
func WithTokenSigner(s *TokenSigner) Option {
	return func(c *Client) { c.tokens = s }
}

// NewClient creates a Client for baseURL. The host is not validated; a bad
// value surfaces as a request error.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the host requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Consolidate asks the service to merge samples older than maxAgeDays into
// coverage.
func (c *Client) Consolidate(ctx context.Context, maxAgeDays int) (*Result, error) {
	target := c.baseURL + "/consolidate?maxAge=" + strconv.Itoa(maxAgeDays)
	return c.post(ctx, OpConsolidate, target)
}

// CleanUp asks the service to remove stale entries of the given category.
func (c *Client) CleanUp(ctx context.Context, category string) (*Result, error) {
	target := c.baseURL + "/clean-up?op=" + category
	return c.post(ctx, OpCleanUp, target)
}

func (c *Client) post(ctx context.Context, operation, target string) (*Result, error) {
	res := &Result{
		Operation: operation,
		URL:       target,
		RequestID: uuid.New().String(),
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return res, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", res.RequestID)

	if c.tokens != nil {
		token, err := c.tokens.Sign(operation)
		if err != nil {
			return res, fmt.Errorf("sign token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return res, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return res, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return res, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        target,
			Body:       snippet(body),
		}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return res, &DecodeError{StatusCode: resp.StatusCode, Body: snippet(body), Err: err}
	}
	res.Payload = payload
	return res, nil
}

// PayloadString renders the decoded payload as compact JSON.
func (r *Result) PayloadString() string {
	if r == nil || r.Payload == nil {
		return "null"
	}
	b, err := json.Marshal(r.Payload)
	if err != nil {
		return fmt.Sprintf("%v", r.Payload)
	}
	return string(b)
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
