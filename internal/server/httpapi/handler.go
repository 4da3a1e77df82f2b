package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/gorilla/mux"
)

type UserService interface {
	Register(ctx context.Context, email, passwordHash string) (*models.User, error)
	Authenticate(ctx context.Context, email, passwordHash string) (*models.User, error)
}

type KeyService interface {
	Add(ctx context.Context, user *models.User, key string) (*models.PublicKey, error)
	List(ctx context.Context, user *models.User) ([]models.PublicKey, error)
	Delete(ctx context.Context, user *models.User, key string) error
	Authenticate(ctx context.Context, pubKey string, message []byte, sigHex string) (*models.User, error)
}

type BucketService interface {
	Create(ctx context.Context, user *models.User, name string, storage, transfer int64) (*models.Bucket, error)
	List(ctx context.Context, user *models.User) ([]models.Bucket, error)
	Get(ctx context.Context, user *models.User, id string) (*models.Bucket, error)
	Delete(ctx context.Context, user *models.User, id string) error
	CreateToken(ctx context.Context, user *models.User, bucketID, operation string) (*models.Token, error)
}

type FileService interface {
	Store(ctx context.Context, bucketID, token, filename, mimetype string, body io.Reader) (*models.File, error)
	List(ctx context.Context, user *models.User, bucketID string) ([]models.File, error)
	Open(ctx context.Context, user *models.User, bucketID, fileID string) (*models.File, io.ReadCloser, error)
	Delete(ctx context.Context, user *models.User, bucketID, fileID string) error
}

// NonceStore consumes request nonces.
type NonceStore interface {
	Use(key string) error
}

// Handler serves the bridge API.
type Handler struct {
	users   UserService
	keys    KeyService
	buckets BucketService
	files   FileService
	nonces  NonceStore
	logger  logging.Logger
	router  *mux.Router
}

func NewHandler(users UserService, keys KeyService, buckets BucketService, files FileService, nonces NonceStore, logger logging.Logger) *Handler {
	h := &Handler{users: users, keys: keys, buckets: buckets, files: files, nonces: nonces, logger: logger}

	root := mux.NewRouter()
	root.Use(h.withLogging)
	root.NotFoundHandler = http.HandlerFunc(h.notFound)
	root.MethodNotAllowedHandler = http.HandlerFunc(h.methodNotAllowed)

	root.HandleFunc("/users", h.createUser).Methods(http.MethodPost)
	// token authorized
	root.HandleFunc("/buckets/{id}/files", h.storeFile).Methods(http.MethodPost)

	api := root.NewRoute().Subrouter()
	api.Use(h.withAuth)
	api.HandleFunc("/keys", h.addKey).Methods(http.MethodPost)
	api.HandleFunc("/keys", h.listKeys).Methods(http.MethodGet)
	api.HandleFunc("/keys/{key}", h.deleteKey).Methods(http.MethodDelete)
	api.HandleFunc("/buckets", h.createBucket).Methods(http.MethodPost)
	api.HandleFunc("/buckets", h.listBuckets).Methods(http.MethodGet)
	api.HandleFunc("/buckets/{id}", h.getBucket).Methods(http.MethodGet)
	api.HandleFunc("/buckets/{id}", h.deleteBucket).Methods(http.MethodDelete)
	api.HandleFunc("/buckets/{id}/tokens", h.createToken).Methods(http.MethodPost)
	api.HandleFunc("/buckets/{id}/files", h.listFiles).Methods(http.MethodGet)
	api.HandleFunc("/buckets/{id}/files/{file}", h.downloadFile).Methods(http.MethodGet)
	api.HandleFunc("/buckets/{id}/files/{file}", h.deleteFile).Methods(http.MethodDelete)

	h.router = root
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, h.logger, http.StatusNotFound, errorResponse{Error: "resource not found", Code: CodeNotFound})
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, h.logger, http.StatusMethodNotAllowed,
		errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed), Code: CodeValidation})
}

// decode reads a JSON request body into v. An empty body leaves v as is.
func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBody+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", common.ErrValidation, err)
	}
	if len(body) > MaxJSONBody {
		return fmt.Errorf("%w: request body too large", common.ErrValidation)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: malformed json: %w", common.ErrValidation, err)
	}
	return nil
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	u, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusCreated, u)
}

func (h *Handler) addKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	k, err := h.keys.Add(r.Context(), userFrom(r.Context()), req.Key)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusCreated, k)
}

func (h *Handler) listKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.keys.List(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, keys)
}

func (h *Handler) deleteKey(w http.ResponseWriter, r *http.Request) {
	if err := h.keys.Delete(r.Context(), userFrom(r.Context()), mux.Vars(r)["key"]); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createBucket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Storage  int64  `json:"storage"`
		Transfer int64  `json:"transfer"`
	}
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	b, err := h.buckets.Create(r.Context(), userFrom(r.Context()), req.Name, req.Storage, req.Transfer)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusCreated, b)
}

func (h *Handler) listBuckets(w http.ResponseWriter, r *http.Request) {
	list, err := h.buckets.List(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, list)
}

func (h *Handler) getBucket(w http.ResponseWriter, r *http.Request) {
	b, err := h.buckets.Get(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, b)
}

func (h *Handler) deleteBucket(w http.ResponseWriter, r *http.Request) {
	if err := h.buckets.Delete(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Operation string `json:"operation"`
	}
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	tok, err := h.buckets.CreateToken(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"], req.Operation)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusCreated, tok)
}

// storeFile streams the "data" part of a multipart body into the bucket.
func (h *Handler) storeFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := r.Header.Get(common.TokenHeaderName)
	if token == "" {
		writeError(ctx, w, h.logger, fmt.Errorf("%w: %s header required", common.ErrInvalidToken, common.TokenHeaderName))
		return
	}
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "multipart/form-data" {
		writeError(ctx, w, h.logger, fmt.Errorf("%w: multipart/form-data body required", common.ErrValidation))
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(ctx, w, h.logger, fmt.Errorf("%w: %w", common.ErrValidation, err))
		return
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			writeError(ctx, w, h.logger, fmt.Errorf("%w: data part is missing", common.ErrValidation))
			return
		}
		if err != nil {
			writeError(ctx, w, h.logger, fmt.Errorf("%w: %w", common.ErrValidation, err))
			return
		}
		if part.FormName() != "data" {
			part.Close()
			continue
		}

		f, err := h.files.Store(ctx, mux.Vars(r)["id"], token, part.FileName(), part.Header.Get("Content-Type"), part)
		part.Close()
		if err != nil {
			writeError(ctx, w, h.logger, err)
			return
		}
		writeJSON(ctx, w, h.logger, http.StatusCreated, f)
		return
	}
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.files.List(r.Context(), userFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(r.Context(), w, h.logger, http.StatusOK, list)
}

func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f, rc, err := h.files.Open(r.Context(), userFrom(r.Context()), vars["id"], vars["file"])
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", f.Mimetype)
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn(r.Context(), "download interrupted", "bucket", vars["id"], "file", vars["file"], "error", err)
	}
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.files.Delete(r.Context(), userFrom(r.Context()), vars["id"], vars["file"]); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
