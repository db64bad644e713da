// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package models

import "time"

// APIResponse represents the standardized response wrapper used by all HTTP
// endpoints. It provides a consistent structure for successful and error
// responses, with metadata for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [...],
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z", "query_time_ms": 12}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DATABASE_ERROR: Store query failure
//   - DATA_UNAVAILABLE: Store unreachable, request aborted
//   - NOT_FOUND: Resource doesn't exist
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginatedResponse wraps list results with paging information.
type PaginatedResponse struct {
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Items  interface{} `json:"items"`
}
