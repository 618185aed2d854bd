package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/hirejourne/prep-agent/internal/server/middleware"
	"github.com/hirejourne/prep-agent/internal/types"
)

// SubmitRequest is the body for /submit-interview-prep.
type SubmitRequest struct {
	CompanyName  string              `json:"companyName"`
	JobDesc      string              `json:"jobDescription"`
	Email        string              `json:"email"`
	ResumeURL    string              `json:"resumeUrl,omitempty"`
	Interviewers []types.Interviewer `json:"interviewers,omitempty"`
}

// SubmitResponse is the response for /submit-interview-prep.
type SubmitResponse struct {
	SubmissionID uuid.UUID              `json:"submissionId"`
	Status       types.SubmissionStatus `json:"status"`
}

// handleSubmit creates a submission and starts processing it in the
// background. The client polls the submission status for completion.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	params := types.NewSubmissionParams{
		UserID:       userID,
		CompanyName:  req.CompanyName,
		JobDesc:      req.JobDesc,
		Email:        req.Email,
		ResumeURL:    req.ResumeURL,
		Interviewers: req.Interviewers,
	}
	if err := params.Validate(); err != nil {
		s.errorFrom(w, &ErrValidation{Field: "submission", Message: err.Error()})
		return
	}

	submissionID, err := s.store.CreateSubmission(r.Context(), params)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	go func() {
		if err := s.processor.Process(context.Background(), submissionID); err != nil {
			log.Printf("Processing submission %s failed: %v", submissionID, err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, SubmitResponse{
		SubmissionID: submissionID,
		Status:       types.StatusPending,
	})
}

// ProcessRequest is the body for /process-submission.
type ProcessRequest struct {
	SubmissionID uuid.UUID `json:"submissionId"`
}

// handleProcess runs a submission synchronously and reports its
// terminal status.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.SubmissionID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "submissionId is required")
		return
	}

	if err := s.processor.Process(r.Context(), req.SubmissionID); err != nil {
		s.errorFrom(w, err)
		return
	}

	sub, err := s.store.GetSubmission(r.Context(), req.SubmissionID)
	if err != nil || sub == nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load processed submission")
		return
	}
	s.jsonResponse(w, http.StatusOK, sub)
}

// handleGetSubmission returns a single submission; the status poller
// drives off this route.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	sub, err := s.store.GetSubmission(r.Context(), submissionID)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	if sub == nil {
		s.errorFrom(w, &ErrNotFound{Resource: "submission", ID: submissionID})
		return
	}
	s.jsonResponse(w, http.StatusOK, sub)
}

// handleListSubmissions lists the caller's submissions.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	subs, err := s.store.ListSubmissions(r.Context(), userID)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	if subs == nil {
		subs = []types.Submission{}
	}
	s.jsonResponse(w, http.StatusOK, subs)
}

// handleGetReport returns the current report for a submission.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	report, err := s.store.GetLatestReport(r.Context(), submissionID)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	if report == nil {
		s.errorFrom(w, &ErrNotFound{Resource: "report", ID: submissionID})
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleGetCompany returns the research record for a submission's company.
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	company, err := s.store.GetCompany(r.Context(), submissionID)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	if company == nil {
		s.errorFrom(w, &ErrNotFound{Resource: "company", ID: submissionID})
		return
	}
	s.jsonResponse(w, http.StatusOK, company)
}

// handleReprocess resets a terminal submission and runs it again.
func (s *Server) handleReprocess(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	existing, err := s.store.GetSubmission(r.Context(), submissionID)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	if existing == nil {
		s.errorFrom(w, &ErrNotFound{Resource: "submission", ID: submissionID})
		return
	}
	if !existing.Status.Terminal() {
		s.errorFrom(w, &ErrInvalidState{Resource: "submission", State: string(existing.Status)})
		return
	}

	if err := s.processor.Reprocess(r.Context(), submissionID); err != nil {
		s.errorFrom(w, err)
		return
	}

	sub, err := s.store.GetSubmission(r.Context(), submissionID)
	if err != nil || sub == nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load reprocessed submission")
		return
	}
	s.jsonResponse(w, http.StatusOK, sub)
}
