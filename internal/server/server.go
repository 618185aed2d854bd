package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/hirejourne/prep-agent/internal/analysis"
	"github.com/hirejourne/prep-agent/internal/enrichment"
	"github.com/hirejourne/prep-agent/internal/research"
	"github.com/hirejourne/prep-agent/internal/server/middleware"
	"github.com/hirejourne/prep-agent/internal/types"
)

// Store is the persistence surface the handlers read and write.
type Store interface {
	CreateSubmission(ctx context.Context, p types.NewSubmissionParams) (uuid.UUID, error)
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*types.Submission, error)
	ListSubmissions(ctx context.Context, userID uuid.UUID) ([]types.Submission, error)
	GetLatestReport(ctx context.Context, submissionID uuid.UUID) (*types.Report, error)
	GetCompany(ctx context.Context, submissionID uuid.UUID) (*types.Company, error)

	SaveChatMessage(ctx context.Context, msg *types.ChatMessage) (uuid.UUID, error)
	ListChatMessages(ctx context.Context, userID uuid.UUID) ([]types.ChatMessage, error)
	ClearChatMessages(ctx context.Context, userID uuid.UUID) error

	AddQuestion(ctx context.Context, userID uuid.UUID, text, category string) (uuid.UUID, error)
	ListQuestions(ctx context.Context, userID uuid.UUID) ([]types.Question, error)
	DeleteQuestion(ctx context.Context, userID, questionID uuid.UUID) error
}

// Processor runs submissions through the pipeline.
type Processor interface {
	Process(ctx context.Context, submissionID uuid.UUID) error
	Reprocess(ctx context.Context, submissionID uuid.UUID) error
}

// ProfileSource looks up interviewer profiles.
type ProfileSource interface {
	PersonByURL(ctx context.Context, linkedinURL string) (*research.PersonProfile, error)
	Configured() bool
}

// Config holds server configuration.
type Config struct {
	Port int
}

// Deps are the collaborators the server dispatches to.
type Deps struct {
	Store     Store
	Processor Processor
	Analyzer  *analysis.Analyzer
	Enricher  *enrichment.Enricher
	Profiles  ProfileSource
	Orgs      enrichment.OrganizationSource
	JWT       *JWTService
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	store      Store
	processor  Processor
	analyzer   *analysis.Analyzer
	enricher   *enrichment.Enricher
	profiles   ProfileSource
	orgs       enrichment.OrganizationSource
	jwtService *JWTService
}

// New creates a server instance.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		store:      deps.Store,
		processor:  deps.Processor,
		analyzer:   deps.Analyzer,
		enricher:   deps.Enricher,
		profiles:   deps.Profiles,
		orgs:       deps.Orgs,
		jwtService: deps.JWT,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // submission processing is synchronous on some routes
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	authed := middleware.Auth(s.jwtService.AsTokenValidator())

	api := http.NewServeMux()
	api.HandleFunc("POST /functions/v1/submit-interview-prep", s.handleSubmit)
	api.HandleFunc("POST /functions/v1/process-submission", s.handleProcess)
	api.HandleFunc("GET /functions/v1/submissions", s.handleListSubmissions)
	api.HandleFunc("GET /functions/v1/submissions/{id}", s.handleGetSubmission)
	api.HandleFunc("POST /functions/v1/submissions/{id}/reprocess", s.handleReprocess)
	api.HandleFunc("GET /functions/v1/submissions/{id}/report", s.handleGetReport)
	api.HandleFunc("GET /functions/v1/submissions/{id}/company", s.handleGetCompany)

	api.HandleFunc("POST /functions/v1/chat", s.handleChat)
	api.HandleFunc("POST /functions/v1/company-research", s.handleCompanyResearch)
	api.HandleFunc("POST /functions/v1/competitors", s.handleCompetitors)
	api.HandleFunc("POST /functions/v1/tech-stack", s.handleTechStack)
	api.HandleFunc("POST /functions/v1/job-description-parser", s.handleParseJobDescription)
	api.HandleFunc("POST /functions/v1/resume-parser", s.handleParseResume)
	api.HandleFunc("POST /functions/v1/resume-matcher", s.handleMatchResume)
	api.HandleFunc("POST /functions/v1/behavioral-star", s.handleBehavioralSTAR)
	api.HandleFunc("POST /functions/v1/technical-star", s.handleTechnicalSTAR)
	api.HandleFunc("POST /functions/v1/interviewer-research", s.handleInterviewerResearch)
	api.HandleFunc("POST /functions/v1/crunchbase", s.handleCrunchbase)

	api.HandleFunc("POST /functions/v1/questions", s.handleAddQuestion)
	api.HandleFunc("GET /functions/v1/questions", s.handleListQuestions)
	api.HandleFunc("DELETE /functions/v1/questions/{id}", s.handleDeleteQuestion)

	mux := http.NewServeMux()
	mux.Handle("/functions/v1/", authed(api))
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withLogging(s.withCORS(mux))
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFrom maps a handler error to its HTTP response.
func (s *Server) errorFrom(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
