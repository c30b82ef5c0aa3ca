package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/prep-tracker/internal/models"
)

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	filters := models.CompanyFilters{
		Search: r.URL.Query().Get("search"),
		Status: models.ApplicationStatus(r.URL.Query().Get("status")),
	}

	companies, err := s.tracker.ListCompanies(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err, "list companies", "")
		return
	}

	respondJSON(w, http.StatusOK, companies)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	company, err := s.tracker.GetCompany(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "get company", id)
		return
	}

	respondJSON(w, http.StatusOK, company)
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req models.CompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := s.tracker.CreateCompany(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "create company", "")
		return
	}

	respondJSON(w, http.StatusCreated, company)
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.CompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := s.tracker.UpdateCompany(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err, "update company", id)
		return
	}

	respondJSON(w, http.StatusOK, company)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.tracker.DeleteCompany(r.Context(), id); err != nil {
		respondServiceError(w, err, "delete company", id)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "company deleted",
	})
}

func (s *Server) handleCompanyStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.CompanyStats(r.Context())
	if err != nil {
		respondServiceError(w, err, "compute company stats", "")
		return
	}
	respondJSON(w, http.StatusOK, st)
}
