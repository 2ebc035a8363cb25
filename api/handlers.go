package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Customer-Service/agent/contract"
)

const (
	msgEmptyMessage   = "Message cannot be empty"
	msgInvalidBody    = "invalid request body"
	msgInternalError  = "An error occurred processing your request"
	streamEmptyPrefix = "Error: "
)

type InquiryResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInquiry(w http.ResponseWriter, r *http.Request) {
	inq, ok := s.decodeInquiry(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(inq.Message) == "" {
		s.writeError(w, msgEmptyMessage, http.StatusBadRequest)
		return
	}

	reply, err := s.service.Process(r.Context(), inq)
	if err != nil {
		if errors.Is(err, contractx.ErrEmptyMessage) {
			s.writeError(w, msgEmptyMessage, http.StatusBadRequest)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Msg("process inquiry")
		s.writeError(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, InquiryResponse{
		Message:   reply,
		Timestamp: s.now().UTC(),
	})
}

func (s *Server) handleInquiryStream(w http.ResponseWriter, r *http.Request) {
	inq, ok := s.decodeInquiry(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(inq.Message) == "" {
		s.writeStreamRejection(w)
		return
	}

	ctx := r.Context()
	logger := log.Ctx(ctx)

	sr, err := s.service.ProcessStream(ctx, inq)
	if err != nil {
		if errors.Is(err, contractx.ErrEmptyMessage) {
			s.writeStreamRejection(w)
			return
		}
		logger.Error().Err(err).Msg("open inquiry stream")
		s.writeError(w, msgInternalError, http.StatusInternalServerError)
		return
	}
	defer sr.Close()

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	for {
		fragment, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("inquiry stream interrupted")
			return
		}
		if _, err := io.WriteString(w, fragment); err != nil {
			logger.Debug().Err(err).Msg("client went away")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   s.cfg.ServiceName,
		Timestamp: s.now().UTC(),
	})
}

func (s *Server) decodeInquiry(w http.ResponseWriter, r *http.Request) (contractx.Inquiry, bool) {
	var inq contractx.Inquiry
	if err := json.NewDecoder(r.Body).Decode(&inq); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("decode inquiry")
		s.writeError(w, msgInvalidBody, http.StatusBadRequest)
		return contractx.Inquiry{}, false
	}
	return inq, true
}

func (s *Server) writeStreamRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, streamEmptyPrefix+msgEmptyMessage)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
