package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/prep-tracker/internal/models"
)

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.QuestionFilters{
		Search:     q.Get("search"),
		Topic:      q.Get("topic"),
		Difficulty: models.Difficulty(q.Get("difficulty")),
		Tags:       q["tags"],
	}

	questions, err := s.tracker.ListQuestions(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err, "list questions", "")
		return
	}

	respondJSON(w, http.StatusOK, questions)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	question, err := s.tracker.GetQuestion(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get question", id)
		return
	}

	respondJSON(w, http.StatusOK, question)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	question, err := s.tracker.CreateQuestion(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "create question", "")
		return
	}

	respondJSON(w, http.StatusCreated, question)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.QuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	question, err := s.tracker.UpdateQuestion(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err, "update question", id)
		return
	}

	respondJSON(w, http.StatusOK, question)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.tracker.DeleteQuestion(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete question", id)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "question deleted",
	})
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.tracker.Topics(r.Context())
	if err != nil {
		respondServiceError(w, err, "list topics", "")
		return
	}
	respondJSON(w, http.StatusOK, topics)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tracker.Tags(r.Context())
	if err != nil {
		respondServiceError(w, err, "list tags", "")
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// Stats handlers

func (s *Server) handleQuestionStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.QuestionStats(r.Context())
	if err != nil {
		respondServiceError(w, err, "compute stats", "")
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	grid, err := s.tracker.Heatmap(r.Context())
	if err != nil {
		respondServiceError(w, err, "build heatmap", "")
		return
	}
	respondJSON(w, http.StatusOK, grid)
}
