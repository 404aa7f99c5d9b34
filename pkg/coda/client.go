/*
 * Copyright 2026 The SOLV Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package coda provides a client for the Coda REST API. Only the row
// operations needed to keep a roster table in sync are implemented.
package coda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	solverrors "github.com/solv-team/solv/pkg/errors"
	"github.com/solv-team/solv/server/logging"
)

const (
	// DefaultBaseURL is the endpoint of the Coda API v1.
	DefaultBaseURL = "https://coda.io/apis/v1"

	// DefaultRequestTimeout bounds a single HTTP exchange.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultPageSize is the number of rows requested per page.
	DefaultPageSize = 200

	// maxErrorBody bounds the bytes of an error response kept in a message.
	maxErrorBody = 4 << 10
)

var (
	// ErrMissingToken is returned when the client is created without an API
	// token. Retrying never helps, so it is classified as unauthenticated.
	ErrMissingToken = solverrors.Unauthenticated("coda api token is not configured")
)

// TransportError is returned when a request fails on the network or the API
// answers with a non-2xx status.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

// Error returns the error message.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("coda %s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message == "" {
		return fmt.Sprintf("coda %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("coda %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap returns the underlying network error, if any.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Status classifies the failure. Network errors are unavailable.
func (e *TransportError) Status() solverrors.StatusCode {
	if e.StatusCode == 0 {
		return solverrors.ErrCodeUnavailable
	}
	return solverrors.FromHTTPStatus(e.StatusCode)
}

// Options are the options for the Coda client.
type Options struct {
	// BaseURL overrides DefaultBaseURL, e.g. for tests.
	BaseURL string

	// RequestTimeout bounds a single HTTP exchange.
	RequestTimeout time.Duration

	// PageSize is the number of rows fetched per page when listing.
	PageSize int

	// HTTPClient overrides the client built from RequestTimeout.
	HTTPClient *http.Client
}

// Client is a client for the Coda API authenticated with a bearer token.
type Client struct {
	token      string
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// NewClient creates a new instance of Client.
func NewClient(token string, opts Options) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		token:      token,
		baseURL:    baseURL,
		pageSize:   pageSize,
		httpClient: httpClient,
	}, nil
}

// ListRows returns every row of the table, following pagination. Values are
// keyed by column ID.
func (c *Client) ListRows(ctx context.Context, docID, tableID string) ([]Row, error) {
	path := fmt.Sprintf("/docs/%s/tables/%s/rows", url.PathEscape(docID), url.PathEscape(tableID))

	var rows []Row
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("valueFormat", "simple")
		query.Set("useColumnNames", "false")
		query.Set("limit", strconv.Itoa(c.pageSize))
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page rowsPage
		if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
			return nil, err
		}
		rows = append(rows, page.Items...)

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	logging.From(ctx).Debugf("coda: listed %d rows of %s/%s", len(rows), docID, tableID)
	return rows, nil
}

// UpdateRow writes the given cells, keyed by column ID, into a row. Columns
// not mentioned are left untouched.
func (c *Client) UpdateRow(
	ctx context.Context,
	docID, tableID, rowID string,
	cells map[string]any,
) (*MutationStatus, error) {
	path := fmt.Sprintf(
		"/docs/%s/tables/%s/rows/%s",
		url.PathEscape(docID),
		url.PathEscape(tableID),
		url.PathEscape(rowID),
	)

	req := rowUpdateRequest{Row: rowEdit{Cells: sortedCells(cells)}}
	var status MutationStatus
	if err := c.do(ctx, http.MethodPut, path, nil, req, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	result any,
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal coda request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create coda request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.From(ctx).Error(err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode,
			Message: "unexpected response", Err: err}
	}

	return nil
}

// errorMessage extracts the message of a Coda error body, falling back to
// the raw text.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}

	return string(bytes.TrimSpace(data))
}

func sortedCells(cells map[string]any) []CellEdit {
	edits := make([]CellEdit, 0, len(cells))
	for column, value := range cells {
		edits = append(edits, CellEdit{Column: column, Value: value})
	}
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Column < edits[j].Column
	})
	return edits
}
