package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/todos"
)

// DefaultMaxBodySize caps JSON request bodies when HandlerConfig.MaxBodySize is zero.
const DefaultMaxBodySize int64 = 1 << 20

type Service interface {
	List(ctx context.Context, ownerID string) ([]todos.Item, error)
	Get(ctx context.Context, ownerID, itemID string) (todos.Item, error)
	Create(ctx context.Context, ownerID string, req todos.CreateItem) (todos.Item, error)
	Update(ctx context.Context, ownerID, itemID string, req todos.UpdateItem) (todos.Item, error)
	RequestUpload(ctx context.Context, ownerID, itemID string) (todos.UploadURL, error)
	Delete(ctx context.Context, ownerID, itemID string) error
}

// ImageFilter downloads an image and returns the filtered JPEG bytes.
type ImageFilter interface {
	Filter(ctx context.Context, imageURL string) ([]byte, error)
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
	Verifier    Verifier
	CORS        CORSConfig
	MaxBodySize int64
	// ImageFilter serves GET /filteredimage; nil disables the route.
	ImageFilter ImageFilter
	// HealthCheck is run by GET /healthz; nil always reports ok.
	HealthCheck func(ctx context.Context) error
}

// Handler provides HTTP handlers for the item API.
type Handler struct {
	config  HandlerConfig
	service Service
}

type itemResponse struct {
	Item todos.Item `json:"item"`
}

type listResponse struct {
	Items []todos.Item `json:"items"`
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	return &Handler{
		config:  cfg,
		service: service,
	}
}

// Router returns an http.Handler with all routes configured.
// Routes under /todos require a bearer token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

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

	if h.config.ImageFilter != nil {
		r.Get("/filteredimage", h.handleFilteredImage)
	}

	r.Route("/todos", func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.Verifier))
		r.Use(middleware.RequestSize(h.config.MaxBodySize))

		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{itemId}", h.handleGet)
		r.Patch("/{itemId}", h.handleUpdate)
		r.Delete("/{itemId}", h.handleDelete)
		r.Post("/{itemId}/attachment", h.handleAttachment)
	})

	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, listResponse{Items: items})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req todos.CreateItem
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, itemResponse{Item: item})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), ownerID, chi.URLParam(r, "itemId"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, itemResponse{Item: item})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req todos.UpdateItem
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.service.Update(r.Context(), ownerID, chi.URLParam(r, "itemId"), req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, itemResponse{Item: item})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, chi.URLParam(r, "itemId")); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAttachment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	upload, err := h.service.RequestUpload(r.Context(), ownerID, chi.URLParam(r, "itemId"))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, upload)
}

func (h *Handler) handleFilteredImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("image_url")
	if imageURL == "" {
		WriteError(w, http.StatusBadRequest, "invalid_input", "image_url is required")
		return
	}

	data, err := h.config.ImageFilter.Filter(r.Context(), imageURL)
	if err != nil {
		if errors.Is(err, todos.ErrInvalidInput) {
			HandleError(w, r, err)
			return
		}
		logRequestError(r, http.StatusUnprocessableEntity, err)
		WriteError(w, http.StatusUnprocessableEntity, "unprocessable_image", "Image could not be processed")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.config.HealthCheck != nil {
		if err := h.config.HealthCheck(r.Context()); err != nil {
			logRequestError(r, http.StatusServiceUnavailable, err)
			_ = WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok || id.Subject == "" {
		HandleError(w, r, todos.ErrUnauthorized)
		return "", false
	}
	return id.Subject, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large")
		return false
	}

	WriteError(w, http.StatusBadRequest, "invalid_json", "Malformed JSON body")
	return false
}
