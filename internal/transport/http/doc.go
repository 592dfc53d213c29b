// Package http implements the HTTP handlers of the dashboard: the dataset
// API under /api/datasets, the health endpoints, the server-rendered
// pages and the websocket upgrade.
//
// Handlers stay thin. They parse and validate the request against the
// contracts in pkg/contracts/api/v1, call the service layer and format
// the response. Successful JSON responses use a small envelope:
//
//	{"status": "success", "data": ..., "count": 3}
//
// Errors are returned as RFC 7807 problem documents through
// errors.ErrorHandler, which maps service and gradebook errors to status
// codes:
//
//	{
//	    "type": "/errors/gradebook/layout-mismatch",
//	    "title": "Gradebook Layout Mismatch",
//	    "status": 422,
//	    "detail": "column structure does not match",
//	    "instance": "/api/datasets",
//	    "error_code": "LAYOUT_MISMATCH",
//	    "trace_id": "..."
//	}
//
// Exports and charts are rendered into a buffer before anything is
// written, so a failure still produces a problem response instead of a
// truncated file.
package http
