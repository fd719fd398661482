package citygml

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// jobQueueSize bounds the number of queued jobs.
const jobQueueSize = 100

// APIServer handles HTTP requests for ingestion jobs
type APIServer struct {
	service     *IngestService
	db          *Database
	config      *Config
	jobQueue    chan *IngestJob
	activeJobs  map[string]*JobStatus
	jobsMutex   sync.RWMutex
	subscribers map[string][]chan JobStatusUpdate
	subsMutex   sync.RWMutex
	workers     sync.WaitGroup
}

// JobStatus tracks the current status of a job
type JobStatus struct {
	Job       IngestJob // snapshot, the worker owns the live job
	Message   string
	UpdatedAt time.Time
}

// JobStatusUpdate represents a status update for streaming
type JobStatusUpdate struct {
	JobID     string    `json:"jobId"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IngestRequest represents an ingestion request
type IngestRequest struct {
	Source  string     `json:"source"`
	Options JobOptions `json:"options"`
}

// IngestResponse represents the response to an ingest request
type IngestResponse struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// JobStatusResponse represents the response to a status request
type JobStatusResponse struct {
	JobID          string     `json:"jobId"`
	Source         string     `json:"source"`
	Status         string     `json:"status"`
	CurrentStep    *string    `json:"currentStep,omitempty"`
	ObjectsLoaded  *int       `json:"objectsLoaded,omitempty"`
	PolygonsLoaded *int       `json:"polygonsLoaded,omitempty"`
	RecordsIndexed *int       `json:"recordsIndexed,omitempty"`
	TilesGenerated *int       `json:"tilesGenerated,omitempty"`
	Warnings       int        `json:"warnings"`
	ErrorMessage   *string    `json:"errorMessage,omitempty"`
	UpdatedAt      string     `json:"updatedAt"`
	Options        JobOptions `json:"options"`
}

func newJobStatusResponse(job *IngestJob, updatedAt time.Time) JobStatusResponse {
	return JobStatusResponse{
		JobID:          job.ID,
		Source:         job.Source,
		Status:         job.Status,
		CurrentStep:    job.CurrentStep,
		ObjectsLoaded:  job.ObjectsLoaded,
		PolygonsLoaded: job.PolygonsLoaded,
		RecordsIndexed: job.RecordsIndexed,
		TilesGenerated: job.TilesGenerated,
		Warnings:       job.Warnings,
		ErrorMessage:   job.ErrorMessage,
		UpdatedAt:      updatedAt.Format(time.RFC3339),
		Options:        job.Options,
	}
}

// NewAPIServer creates a new API server. db may be nil.
func NewAPIServer(service *IngestService, db *Database, config *Config) *APIServer {
	return &APIServer{
		service:     service,
		db:          db,
		config:      config,
		jobQueue:    make(chan *IngestJob, jobQueueSize),
		activeJobs:  make(map[string]*JobStatus),
		subscribers: make(map[string][]chan JobStatusUpdate),
	}
}

// Handler returns the routes of the API.
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ingest", s.handleIngest)
	mux.HandleFunc("/api/jobs/", s.handleJobStatus)
	mux.HandleFunc("/api/jobs", s.handleListJobs)
	mux.HandleFunc("/api/stream/", s.handleJobStream)
	mux.HandleFunc("/api/objects", s.handleObjects)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the workers and serves the API until ctx is done.
func (s *APIServer) Start(ctx context.Context, port int) error {
	s.startWorkers(s.config.Service.Workers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("starting API server", "port", port, "workers", s.config.Service.Workers)
	err := srv.ListenAndServe()
	s.Stop()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// startWorkers launches n job processors.
func (s *APIServer) startWorkers(n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		s.workers.Add(1)
		go func() {
			defer s.workers.Done()
			for job := range s.jobQueue {
				s.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for running jobs.
func (s *APIServer) Stop() {
	close(s.jobQueue)
	s.workers.Wait()
}

// handleIngest handles POST /api/ingest
func (s *APIServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		http.Error(w, "Source is required", http.StatusBadRequest)
		return
	}
	if _, err := req.Options.ParserParams(s.config.Parser); err != nil {
		http.Error(w, fmt.Sprintf("Invalid options: %v", err), http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &IngestJob{
		ID:        uuid.New().String(),
		Source:    req.Source,
		Status:    StatusPending,
		Options:   req.Options,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.db != nil {
		if err := s.db.CreateJob(r.Context(), job); err != nil {
			slog.Error("failed to create job in database", "error", err)
			http.Error(w, "Failed to create job", http.StatusInternalServerError)
			return
		}
	}

	s.jobsMutex.Lock()
	s.activeJobs[job.ID] = &JobStatus{Job: *job, Message: "Job queued", UpdatedAt: now}
	s.jobsMutex.Unlock()

	select {
	case s.jobQueue <- job:
		slog.Info("job queued", "job_id", job.ID, "source", job.Source)
	default:
		s.jobsMutex.Lock()
		delete(s.activeJobs, job.ID)
		s.jobsMutex.Unlock()
		http.Error(w, "Job queue is full", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(IngestResponse{
		JobID:   job.ID,
		Message: "Job queued successfully",
	})
}

// handleJobStatus handles GET /api/jobs/{jobId}
func (s *APIServer) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if jobID == "" {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	s.jobsMutex.RLock()
	status, exists := s.activeJobs[jobID]
	var resp JobStatusResponse
	if exists {
		resp = newJobStatusResponse(&status.Job, status.UpdatedAt)
	}
	s.jobsMutex.RUnlock()

	if !exists {
		if s.db == nil {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		job, err := s.db.GetJobByID(r.Context(), jobID)
		if err != nil {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		resp = newJobStatusResponse(job, job.UpdatedAt)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleListJobs handles GET /api/jobs
func (s *APIServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.jobsMutex.RLock()
	jobs := make([]JobStatusResponse, 0, len(s.activeJobs))
	created := make(map[string]time.Time, len(s.activeJobs))
	for _, status := range s.activeJobs {
		jobs = append(jobs, newJobStatusResponse(&status.Job, status.UpdatedAt))
		created[status.Job.ID] = status.Job.CreatedAt
	}
	s.jobsMutex.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return created[jobs[i].JobID].Before(created[jobs[j].JobID])
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// handleJobStream handles GET /api/stream/{jobId} for Server-Sent Events
func (s *APIServer) handleJobStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/stream/")
	if jobID == "" {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// subscribe before reading the current state so no update is lost
	updateChan := make(chan JobStatusUpdate, 10)
	s.subsMutex.Lock()
	s.subscribers[jobID] = append(s.subscribers[jobID], updateChan)
	s.subsMutex.Unlock()

	defer func() {
		s.subsMutex.Lock()
		subs := s.subscribers[jobID]
		for i, ch := range subs {
			if ch == updateChan {
				s.subscribers[jobID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(s.subscribers[jobID]) == 0 {
			delete(s.subscribers, jobID)
		}
		s.subsMutex.Unlock()
	}()

	s.jobsMutex.RLock()
	status, exists := s.activeJobs[jobID]
	var initial JobStatusUpdate
	if exists {
		initial = JobStatusUpdate{
			JobID:     jobID,
			Status:    status.Job.Status,
			Message:   "Connected to job stream",
			UpdatedAt: time.Now(),
		}
	}
	s.jobsMutex.RUnlock()

	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	writeEvent(w, initial)
	flusher.Flush()
	if initial.Status == StatusCompleted || initial.Status == StatusFailed {
		return
	}

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case update := <-updateChan:
			writeEvent(w, update)
			flusher.Flush()
			if update.Status == StatusCompleted || update.Status == StatusFailed {
				return
			}
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, update JobStatusUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// handleObjects handles GET /api/objects?bbox=minLng,minLat,maxLng,maxLat&kind=Building
func (s *APIServer) handleObjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.db == nil {
		http.Error(w, "Object index is not configured", http.StatusServiceUnavailable)
		return
	}

	bound, err := parseBBox(r.URL.Query().Get("bbox"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid bbox: %v", err), http.StatusBadRequest)
		return
	}
	limit := 1000
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, 10000)
		}
	}

	records, err := s.db.FindRecords(r.Context(), bound, r.URL.Query()["kind"], limit)
	if err != nil {
		slog.Error("failed to query object records", "error", err)
		http.Error(w, "Failed to query objects", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []ObjectRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// parseBBox parses minLng,minLat,maxLng,maxLat.
func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("expected minLng,minLat,maxLng,maxLat")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("invalid number %q", p)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("minimum exceeds maximum")
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

// handleHealth handles GET /health
func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// processJob processes a single job
func (s *APIServer) processJob(job *IngestJob) {
	ctx := context.Background()
	slog.Info("processing job", "job_id", job.ID, "source", job.Source)

	_, err := s.service.ProcessJob(ctx, job, s.updateJobStatus)
	if err != nil {
		slog.Error("job failed", "job_id", job.ID, "error", err)
		return
	}
	slog.Info("job completed", "job_id", job.ID)
}

// updateJobStatus stores a snapshot of job and notifies subscribers
func (s *APIServer) updateJobStatus(job *IngestJob, message string) {
	now := time.Now()

	s.jobsMutex.Lock()
	s.activeJobs[job.ID] = &JobStatus{Job: *job, Message: message, UpdatedAt: now}
	s.jobsMutex.Unlock()

	update := JobStatusUpdate{
		JobID:     job.ID,
		Status:    job.Status,
		Message:   message,
		UpdatedAt: now,
	}
	if job.ErrorMessage != nil {
		update.Error = *job.ErrorMessage
	}

	s.subsMutex.RLock()
	defer s.subsMutex.RUnlock()
	for _, ch := range s.subscribers[job.ID] {
		select {
		case ch <- update:
		default:
			// subscriber is behind, drop the update
		}
	}
}
