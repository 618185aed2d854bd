package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/hirejourne/prep-agent/internal/server/middleware"
	"github.com/hirejourne/prep-agent/internal/types"
)

// QuestionRequest is the body for adding a question to the user's bank.
type QuestionRequest struct {
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		s.errorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	questionID, err := s.store.AddQuestion(r.Context(), userID, req.Text, req.Category)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]uuid.UUID{"id": questionID})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	questions, err := s.store.ListQuestions(r.Context(), userID)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	if questions == nil {
		questions = []types.Question{}
	}
	s.jsonResponse(w, http.StatusOK, questions)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	questionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid question ID")
		return
	}

	if err := s.store.DeleteQuestion(r.Context(), userID, questionID); err != nil {
		s.errorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
