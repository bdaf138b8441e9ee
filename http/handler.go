package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// DefaultMaxRequestBytes caps request bodies when HandlerConfig leaves it unset.
const DefaultMaxRequestBytes int64 = 1 << 20

// Operation names accepted in the request body. Each has a legacy alias.
const (
	OpRequestUpload   = "request-upload"
	OpConfirmUpload   = "confirm-upload"
	OpRequestDownload = "request-download"
	OpListFiles       = "list-files"
)

var operationAliases = map[string]string{
	"":                 OpRequestUpload,
	OpRequestUpload:    OpRequestUpload,
	"get_upload_url":   OpRequestUpload,
	OpConfirmUpload:    OpConfirmUpload,
	"complete_upload":  OpConfirmUpload,
	OpRequestDownload:  OpRequestDownload,
	"get_download_url": OpRequestDownload,
	OpListFiles:        OpListFiles,
	"list_files":       OpListFiles,
}

// Broker is the set of operations exposed over HTTP.
// *mediastore.UploadBroker satisfies it.
type Broker interface {
	RequestUpload(ctx context.Context, ownerID string, req mediastore.UploadRequest) (mediastore.UploadTicket, error)
	ConfirmUpload(ctx context.Context, ownerID, fileID string) (mediastore.ConfirmResult, error)
	RequestDownload(ctx context.Context, ownerID, fileID string) (mediastore.DownloadTicket, error)
	ListFiles(ctx context.Context, ownerID string, q mediastore.ListQuery) (mediastore.ListResult, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	Gate            Verifier
	CORS            CORSConfig
	MaxRequestBytes int64
	// Health is pinged by GET /healthz. Nil reports healthy unconditionally.
	Health Pinger
}

// Handler serves the broker API.
type Handler struct {
	config HandlerConfig
	broker Broker
}

// NewHandler creates a new Handler with the given configuration and broker.
func NewHandler(config *HandlerConfig, broker Broker) *Handler {
	cfg := *config
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = DefaultMaxRequestBytes
	}
	return &Handler{
		config: cfg,
		broker: broker,
	}
}

// Router returns an http.Handler with all routes configured.
//
//	POST    /api/upload   authenticated operation dispatch
//	OPTIONS /api/upload   preflight, always 200 without auth
//	GET     /healthz      liveness plus metadata store ping
//	GET     /metrics      Prometheus exposition
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Options("/api/upload", h.handlePreflight)
	r.With(AuthMiddleware(h.config.Gate)).Post("/api/upload", h.handleUpload)

	return r
}

type fileInfoBody struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type metadataBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type apiRequest struct {
	Operation string       `json:"operation"`
	FileInfo  fileInfoBody `json:"file_info"`
	Metadata  metadataBody `json:"metadata"`
	FileID    string       `json:"file_id"`
	Status    string       `json:"status"`
	Limit     int          `json:"limit"`
	Cursor    string       `json:"cursor"`
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
	FileID    string `json:"file_id"`
	ExpiresIn int64  `json:"expires_in"`
}

type confirmResponse struct {
	Message string            `json:"message"`
	FileID  string            `json:"file_id"`
	Status  mediastore.Status `json:"status"`
}

type fileInfoResponse struct {
	Filename    string              `json:"filename"`
	FileType    mediastore.Category `json:"file_type"`
	FileSize    int64               `json:"file_size"`
	ContentType string              `json:"content_type"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Tags        []string            `json:"tags"`
}

type downloadResponse struct {
	DownloadURL string           `json:"download_url"`
	FileInfo    fileInfoResponse `json:"file_info"`
	ExpiresIn   int64            `json:"expires_in"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Timestamp: time.Now().UTC()}

	if h.config.Health != nil {
		if err := h.config.Health.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "health check failed", "error", err)
			resp.Status = "unhealthy"
			_ = WriteJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	_ = WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		HandleError(w, mediastore.ErrUnauthorized)
		return
	}

	var req apiRequest
	body := http.MaxBytesReader(w, r.Body, h.config.MaxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "Request body too large")
			return
		}
		WriteError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON in request body")
		return
	}

	operation, known := operationAliases[req.Operation]
	if !known {
		WriteError(w, http.StatusBadRequest, CodeInvalidOperation, "Invalid operation")
		return
	}

	switch operation {
	case OpRequestUpload:
		h.requestUpload(w, r, principal, req)
	case OpConfirmUpload:
		h.confirmUpload(w, r, principal, req)
	case OpRequestDownload:
		h.requestDownload(w, r, principal, req)
	case OpListFiles:
		h.listFiles(w, r, principal, req)
	}
}

func (h *Handler) requestUpload(w http.ResponseWriter, r *http.Request, p mediastore.Principal, req apiRequest) {
	ticket, err := h.broker.RequestUpload(r.Context(), p.OwnerID, mediastore.UploadRequest{
		File: mediastore.FileInfo{
			Name:        req.FileInfo.Name,
			Size:        req.FileInfo.Size,
			ContentType: req.FileInfo.Type,
		},
		Metadata: mediastore.DisplayMetadata{
			Title:       req.Metadata.Title,
			Description: req.Metadata.Description,
			Tags:        req.Metadata.Tags,
		},
	})
	observeOperation(OpRequestUpload, err)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, uploadResponse{
		UploadURL: ticket.UploadURL,
		FileID:    ticket.FileID,
		ExpiresIn: seconds(ticket.ExpiresIn),
	})
}

func (h *Handler) confirmUpload(w http.ResponseWriter, r *http.Request, p mediastore.Principal, req apiRequest) {
	if req.FileID == "" {
		WriteError(w, http.StatusBadRequest, CodeMissingFileID, "Missing file_id")
		return
	}

	result, err := h.broker.ConfirmUpload(r.Context(), p.OwnerID, req.FileID)
	observeOperation(OpConfirmUpload, err)
	if err != nil {
		HandleError(w, err)
		return
	}

	message := "Upload completed successfully"
	if !result.Changed {
		message = "Upload already completed"
	}

	_ = WriteJSON(w, http.StatusOK, confirmResponse{
		Message: message,
		FileID:  result.Record.FileID,
		Status:  result.Record.Status,
	})
}

func (h *Handler) requestDownload(w http.ResponseWriter, r *http.Request, p mediastore.Principal, req apiRequest) {
	if req.FileID == "" {
		WriteError(w, http.StatusBadRequest, CodeMissingFileID, "Missing file_id")
		return
	}

	ticket, err := h.broker.RequestDownload(r.Context(), p.OwnerID, req.FileID)
	observeOperation(OpRequestDownload, err)
	if err != nil {
		HandleError(w, err)
		return
	}

	rec := ticket.File
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}

	_ = WriteJSON(w, http.StatusOK, downloadResponse{
		DownloadURL: ticket.DownloadURL,
		FileInfo: fileInfoResponse{
			Filename:    rec.DeclaredName,
			FileType:    rec.Category,
			FileSize:    rec.DeclaredSize,
			ContentType: rec.DeclaredContentType,
			Title:       rec.Title,
			Description: rec.Description,
			Tags:        tags,
		},
		ExpiresIn: seconds(ticket.ExpiresIn),
	})
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request, p mediastore.Principal, req apiRequest) {
	result, err := h.broker.ListFiles(r.Context(), p.OwnerID, mediastore.ListQuery{
		Status: mediastore.Status(req.Status),
		Limit:  req.Limit,
		Cursor: req.Cursor,
	})
	observeOperation(OpListFiles, err)
	if err != nil {
		HandleError(w, err)
		return
	}

	if result.Items == nil {
		result.Items = []mediastore.FileRecord{}
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
