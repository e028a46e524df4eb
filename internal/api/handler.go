package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ayeshastore/ayesha/internal/assistant"
)

const (
	serviceName    = "Ayesha's Shopping Assistant"
	welcomeMessage = "Welcome to Ayesha's Shopping Store API"
)

// maxBodyBytes bounds the JSON body, not the message. Any message that fits is accepted.
const maxBodyBytes = 1 << 20

// Asker produces a reply for a customer message.
type Asker interface {
	Ask(ctx context.Context, sessionID, message string) (string, error)
}

type askRequest struct {
	Message   string  `json:"message" validate:"required"`
	SessionID *string `json:"session_id"`
}

type askResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	asker        Asker
	log          *zap.Logger
	validate     *validator.Validate
	exposeDetail bool
}

// NewHandler builds the HTTP handlers. When exposeDetail is set, failed /ask
// responses carry the underlying error text instead of only its kind.
func NewHandler(asker Asker, log *zap.Logger, exposeDetail bool) *Handler {
	return &Handler{
		asker:        asker,
		log:          log.With(zap.String("component", "api")),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		exposeDetail: exposeDetail,
	}
}

// HandleAsk answers a customer message. Once the body is valid the response is
// always 200; failures are reported in the body next to a fixed apology.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "field " + typeErr.Field + " has the wrong type"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: validationMessage(err)})
		return
	}

	// An absent, null or empty session_id all mean the default conversation.
	sessionID := assistant.DefaultSessionID
	if req.SessionID != nil && *req.SessionID != "" {
		sessionID = *req.SessionID
	}

	reply, err := h.asker.Ask(r.Context(), sessionID, req.Message)
	if err != nil {
		ae := assistant.Classify(err)
		detail := string(ae.Kind)
		if h.exposeDetail {
			detail = ae.Err.Error()
		}
		writeJSON(w, http.StatusOK, askResponse{Reply: assistant.Apology, Error: detail})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Reply: reply})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "active", "service": serviceName})
}

func (h *Handler) HandleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if fe.Tag() == "required" {
		return field + " is required"
	}
	return field + " is invalid"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
