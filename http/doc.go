// Package http exposes the upload broker over a single JSON endpoint.
//
// Every API call is a POST to /api/upload whose body names an operation:
//
//	{"operation": "request-upload", "file_info": {...}, "metadata": {...}}
//	{"operation": "confirm-upload", "file_id": "..."}
//	{"operation": "request-download", "file_id": "..."}
//	{"operation": "list-files", "status": "completed", "limit": 50, "cursor": "..."}
//
// A missing operation means request-upload. The older names get_upload_url,
// complete_upload, get_download_url and list_files are accepted as aliases.
//
// # Authentication
//
// AuthMiddleware verifies the bearer token before the body is read, so a
// request without valid credentials is rejected with 401 even if its body is
// malformed. OPTIONS /api/upload is answered with 200 without authentication.
//
//	gate := mediastore.NewAuthGate(provider)
//	handler := http.NewHandler(&http.HandlerConfig{Gate: gate}, broker)
//	srv := &nethttp.Server{Addr: ":8080", Handler: handler.Router()}
//
// # Errors
//
// Errors are JSON objects with an error code, a message and, for validation
// failures, the list of violated rules:
//
//	{"error": "validation_failed", "message": "File validation failed",
//	 "details": ["File type .exe is not allowed"]}
//
// Dependency failures are reported as internal_error; their cause is only
// logged.
//
// # Operations endpoints
//
// GET /healthz pings the metadata store and GET /metrics serves Prometheus
// metrics, both without authentication.
package http
