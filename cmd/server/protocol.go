// Package main provides a TCP front end for the snapquery console.
package main

import (
	"encoding/json"
)

// Request represents a SQL query from the client.
type Request struct {
	Query string `json:"query"`
}

// Response represents the server's response to a query.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "rows", "ack", "auth", or a failure kind
	Result  json.RawMessage `json:"result,omitempty"`
}

// RowsResponse contains tabular query results.
type RowsResponse struct {
	Columns  []string        `json:"columns"`
	Data     [][]interface{} `json:"data"`
	RowCount int             `json:"row_count"`
	TimeMs   float64         `json:"time_ms"`
}

// AckResponse acknowledges a statement that produced no rows.
type AckResponse struct {
	Message string  `json:"message"`
	TimeMs  float64 `json:"time_ms"`
}

// AuthResponse reports the outcome of an AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses a JSON request from a byte slice.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(data, &req)
	return req, err
}
