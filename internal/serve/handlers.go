package serve

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/okra-platform/greeter/internal/greeting"
)

// maxBodyBytes limits the size of request bodies
const maxBodyBytes = 1 << 20

var (
	errNullBody     = errors.New("request body is null")
	errTrailingData = errors.New("unexpected data after request body")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusCoder is implemented by errors that know their HTTP status
type statusCoder interface {
	StatusCode() int
}

// handleGetGreeting returns the main greeting, or the user named by the id query parameter
func (s *server) handleGetGreeting(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		s.sendJSON(w, http.StatusOK, s.greeter.Greeting(r.Context()))
		return
	}

	s.lookupUser(w, r, raw)
}

// handleGetUser returns the user named by the path identifier
func (s *server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.lookupUser(w, r, mux.Vars(r)["id"])
}

func (s *server) lookupUser(w http.ResponseWriter, r *http.Request, raw string) {
	id, err := greeting.ParseID(raw)
	if err != nil {
		s.sendError(w, err)
		return
	}

	user, err := s.greeter.Lookup(r.Context(), id)
	if err != nil {
		s.sendError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, user)
}

// handleCreateUser registers the user in the request body
func (s *server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := decodeUser(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.sendErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.greeter.Create(r.Context(), *user)
	if err != nil {
		s.sendError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, created)
}

// decodeUser reads exactly one JSON object from body
func decodeUser(body io.Reader) (*greeting.UserData, error) {
	dec := json.NewDecoder(body)

	var user *greeting.UserData
	if err := dec.Decode(&user); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errNullBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return user, nil
}

// handleHealth handles health check requests
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.sendErrorMessage(w, http.StatusNotFound, "not found")
}

func (s *server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.sendErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}

// sendError reports err with the status it carries, or 500 when it carries none
func (s *server) sendError(w http.ResponseWriter, err error) {
	var coder statusCoder
	if errors.As(err, &coder) {
		s.sendErrorMessage(w, coder.StatusCode(), err.Error())
		return
	}

	s.logger.Error().Err(err).Msg("request failed")
	s.sendErrorMessage(w, http.StatusInternalServerError, "internal server error")
}

// sendErrorMessage sends an error response
func (s *server) sendErrorMessage(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, &ErrorResponse{
		Error: message,
	})
}

func (s *server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write response")
	}
}
