package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/convertsrv/pdfconvert/convert"
	"github.com/convertsrv/pdfconvert/logger"
	"github.com/convertsrv/pdfconvert/upload"
	"github.com/convertsrv/pdfconvert/version"
)

// multipartSlack covers multipart framing overhead on top of the payload
// size cap when limiting the request body.
const multipartSlack = 64 * 1024

// ConvertResponse is the JSON body returned by the convert endpoints.
type ConvertResponse struct {
	Text      string `json:"text"`
	Filename  string `json:"filename"`
	PageCount int    `json:"page_count"`
	OCRUsed   bool   `json:"ocr_used"`
}

// RootResponse is the static metadata served at the root endpoint.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Redoc   string `json:"redoc"`
}

// ErrorResponse represents an error.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

// Handler contains the HTTP handlers for the API.
type Handler struct {
	validator *upload.Validator
	v1        convert.Converter
	v2        convert.Converter
	logger    logger.Logger
}

// NewHandler creates a Handler. v2 may be nil when no model backend is
// configured; the v2 endpoint then reports service unavailable.
func NewHandler(validator *upload.Validator, v1, v2 convert.Converter, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Noop()
	}
	return &Handler{validator: validator, v1: v1, v2: v2, logger: log}
}

// HandleRoot handles GET / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, RootResponse{
		Message: "Welcome to the Document Converter API",
		Version: version.Version,
		Docs:    "/docs",
		Redoc:   "/redoc",
	}, http.StatusOK)
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// HandleConvertV1 handles POST /api/v1/pdf/convert requests.
func (h *Handler) HandleConvertV1(w http.ResponseWriter, r *http.Request) {
	h.handleConvert(w, r, h.v1)
}

// HandleConvertV2 handles POST /api/v2/pdf/convert requests.
func (h *Handler) HandleConvertV2(w http.ResponseWriter, r *http.Request) {
	if h.v2 == nil {
		h.sendError(w, "model backend is not configured", http.StatusServiceUnavailable)
		return
	}
	h.handleConvert(w, r, h.v2)
}

// handleConvert runs the shared convert flow: read the multipart upload,
// validate it, dispatch to the converter, and shape the response.
func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request, converter convert.Converter) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.validator.MaxSize()+multipartSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			h.sendError(w, "request body too large", http.StatusBadRequest)
			return
		}
		h.sendError(w, "multipart field 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := h.validator.Check(header.Filename, header.Size); err != nil {
		h.logger.Info("upload rejected", "filename", header.Filename, "size", header.Size, "error", err)
		h.sendError(w, err.Error(), validationStatus(err))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			h.sendError(w, "request body too large", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to read upload", "filename", header.Filename, "error", err)
		h.sendError(w, "failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	h.logger.Info("convert request", "filename", header.Filename, "size", len(data))

	result, err := converter.Convert(ctx, data)
	if err != nil {
		h.logger.Error("conversion failed", "filename", header.Filename, "error", err)
		h.sendError(w, conversionMessage(err), conversionStatus(err))
		return
	}

	h.logger.Info("convert completed",
		"filename", header.Filename,
		"page_count", result.PageCount,
		"ocr_used", result.OCRUsed,
	)

	h.sendJSON(w, ConvertResponse{
		Text:      result.Text,
		Filename:  header.Filename,
		PageCount: result.PageCount,
		OCRUsed:   result.OCRUsed,
	}, http.StatusOK)
}

// validationStatus maps a validation failure to its HTTP status: 415 for a
// disallowed extension, 400 otherwise.
func validationStatus(err error) int {
	var verr *upload.ValidationError
	if errors.As(err, &verr) && verr.Kind == upload.KindExtension {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

// conversionStatus maps a conversion failure to its HTTP status: 422 for
// unparseable input, 500 for backend failures.
func conversionStatus(err error) int {
	if convert.IsInvalidInput(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func conversionMessage(err error) string {
	var cerr *convert.ConversionError
	if errors.As(err, &cerr) {
		return cerr.Error()
	}
	return "an unexpected error occurred while processing the file"
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// sendJSON sends a JSON response.
func (h *Handler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// sendError sends an error response.
func (h *Handler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, ErrorResponse{
		Error:      message,
		StatusCode: statusCode,
	}, statusCode)
}
