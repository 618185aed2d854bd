package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/server/middleware"
	"github.com/hirejourne/prep-agent/internal/types"
)

// ChatRequest is the body for /chat.
type ChatRequest struct {
	Message     string `json:"message"`
	CompanyName string `json:"companyName,omitempty"`
	Role        string `json:"role,omitempty"`
	Reset       bool   `json:"reset,omitempty"`
}

// ChatResponse is the response for /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// handleChat appends to the caller's chat history and returns the
// assistant reply. Both turns are persisted.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	if req.Reset {
		if err := s.store.ClearChatMessages(r.Context(), userID); err != nil {
			s.errorFrom(w, err)
			return
		}
	}

	userMsg := &types.ChatMessage{UserID: userID, Role: types.RoleUser, Content: req.Message}
	if _, err := s.store.SaveChatMessage(r.Context(), userMsg); err != nil {
		s.errorFrom(w, err)
		return
	}

	history, err := s.store.ListChatMessages(r.Context(), userID)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	reply, err := s.analyzer.ChatReply(r.Context(), history, req.CompanyName, req.Role)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	assistantMsg := &types.ChatMessage{UserID: userID, Role: types.RoleAssistant, Content: reply}
	if _, err := s.store.SaveChatMessage(r.Context(), assistantMsg); err != nil {
		s.errorFrom(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{Reply: reply})
}

// CompanyRequest names a company for the research routes.
type CompanyRequest struct {
	CompanyName string `json:"companyName"`
	Domain      string `json:"domain,omitempty"`
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompanyName == "" {
		s.errorResponse(w, http.StatusBadRequest, "companyName is required")
		return
	}

	// Prefer the company database, fall back to generation.
	if s.orgs != nil && s.orgs.Configured() {
		competitors, err := s.orgs.Competitors(r.Context(), req.CompanyName)
		if err == nil && len(competitors) > 0 {
			s.jsonResponse(w, http.StatusOK, competitors)
			return
		}
	}

	competitors, err := s.analyzer.Competitors(r.Context(), req.CompanyName)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, competitors)
}

func (s *Server) handleTechStack(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompanyName == "" {
		s.errorResponse(w, http.StatusBadRequest, "companyName is required")
		return
	}

	stack, err := s.analyzer.TechStack(r.Context(), req.CompanyName, req.Domain)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stack)
}

// TextRequest carries free-form text for the parsing routes.
type TextRequest struct {
	JobDescription string `json:"jobDescription,omitempty"`
	ResumeText     string `json:"resumeText,omitempty"`
}

func (s *Server) handleParseJobDescription(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.JobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "jobDescription is required")
		return
	}

	parsed, err := s.analyzer.ParseJobDescription(r.Context(), req.JobDescription)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, parsed)
}

func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResumeText == "" {
		s.errorResponse(w, http.StatusBadRequest, "resumeText is required")
		return
	}

	parsed, err := s.analyzer.ParseResume(r.Context(), req.ResumeText)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, parsed)
}

func (s *Server) handleMatchResume(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResumeText == "" || req.JobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "resumeText and jobDescription are required")
		return
	}

	result, err := s.analyzer.AnalyzeResume(r.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// STARRequest is the body for the STAR-answer routes.
type STARRequest struct {
	Questions   []string `json:"questions"`
	ResumeText  string   `json:"resumeText,omitempty"`
	Role        string   `json:"role,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
}

func (s *Server) handleBehavioralSTAR(w http.ResponseWriter, r *http.Request) {
	s.handleSTAR(w, r, s.analyzer.GenerateBehavioralSTAR)
}

func (s *Server) handleTechnicalSTAR(w http.ResponseWriter, r *http.Request) {
	s.handleSTAR(w, r, s.analyzer.GenerateTechnicalSTAR)
}

func (s *Server) handleSTAR(w http.ResponseWriter, r *http.Request, generate func(ctx context.Context, questions []string, resume, role, company string) ([]types.STARAnswer, error)) {
	var req STARRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Questions) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "questions are required")
		return
	}

	answers, err := generate(r.Context(), req.Questions, req.ResumeText, req.Role, req.CompanyName)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, answers)
}

// InterviewerRequest is the body for /interviewer-research.
type InterviewerRequest struct {
	Name        string `json:"name"`
	LinkedInURL string `json:"linkedinUrl"`
	CompanyName string `json:"companyName,omitempty"`
	ResumeText  string `json:"resumeText,omitempty"`
}

func (s *Server) handleInterviewerResearch(w http.ResponseWriter, r *http.Request) {
	var req InterviewerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LinkedInURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "linkedinUrl is required")
		return
	}

	var person *research.PersonProfile
	if s.profiles != nil && s.profiles.Configured() {
		found, err := s.profiles.PersonByURL(r.Context(), req.LinkedInURL)
		if err == nil {
			person = found
		}
	}

	interviewer := types.Interviewer{Name: req.Name, LinkedInURL: req.LinkedInURL}
	profile, err := s.analyzer.AssessInterviewer(r.Context(), interviewer, person, req.ResumeText, "", req.CompanyName)
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleCompanyResearch runs the full enrichment pass for a company on
// demand, outside the submission pipeline.
func (s *Server) handleCompanyResearch(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompanyName == "" {
		s.errorResponse(w, http.StatusBadRequest, "companyName is required")
		return
	}
	if s.enricher == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "company research is not configured")
		return
	}

	record := s.enricher.Enrich(r.Context(), req.CompanyName)
	s.jsonResponse(w, http.StatusOK, record)
}

// CrunchbaseResponse aggregates the company-database lookups the
// frontend shows on one card.
type CrunchbaseResponse struct {
	Organization  *research.Organization `json:"organization,omitempty"`
	FundingRounds []types.FundingRound   `json:"fundingRounds"`
	Competitors   []types.Competitor     `json:"competitors"`
}

func (s *Server) handleCrunchbase(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CompanyName == "" {
		s.errorResponse(w, http.StatusBadRequest, "companyName is required")
		return
	}
	if s.orgs == nil || !s.orgs.Configured() {
		s.errorResponse(w, http.StatusServiceUnavailable, "company database is not configured")
		return
	}

	org, err := s.orgs.OrganizationByName(r.Context(), req.CompanyName)
	if err != nil {
		s.errorFrom(w, err)
		return
	}

	resp := CrunchbaseResponse{
		Organization:  org,
		FundingRounds: []types.FundingRound{},
		Competitors:   []types.Competitor{},
	}
	if rounds, err := s.orgs.FundingRounds(r.Context(), req.CompanyName); err == nil && rounds != nil {
		resp.FundingRounds = rounds
	}
	if competitors, err := s.orgs.Competitors(r.Context(), req.CompanyName); err == nil && competitors != nil {
		resp.Competitors = competitors
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
