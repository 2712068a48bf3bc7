package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pensamiento-creativo/student-records-service/internal/adapters/metrics"
	"github.com/pensamiento-creativo/student-records-service/internal/adapters/middleware"
	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
	"github.com/pensamiento-creativo/student-records-service/internal/core/services"
)

type RecordHandler struct {
	recordService ports.RecordService
	stream        ports.RecordStream
}

func NewRecordHandler(records ports.RecordService, stream ports.RecordStream) *RecordHandler {
	return &RecordHandler{recordService: records, stream: stream}
}

type CreateRecordRequest struct {
	StudentID string `json:"student_id"`
	Type      string `json:"type"`
	Text      string `json:"text"`
}

func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.recordService.Submit(r.Context(), identity, req.StudentID, domain.RecordKind(req.Type), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordsWritten.Inc()
	writeJSON(w, http.StatusCreated, record)
}

// ListRecords returns the per-student feed when studentId is given, else
// the capped system-wide feed, both newest first.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")

	var records []domain.Record
	var err error
	if studentID == "" {
		records, err = h.recordService.ListLatest(r.Context())
	} else {
		records, err = h.recordService.ListForStudent(r.Context(), studentID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}

	writeJSON(w, http.StatusOK, records)
}

// StreamRecords serves one dashboard's live feed over server-sent events.
// Each connection owns its own subscription manager, so a dropped client
// releases its subscription on disconnect.
func (h *RecordHandler) StreamRecords(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFrom(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sink := &sseSink{w: w, flusher: flusher}
	manager := services.NewSubscriptionManager(h.stream, sink)
	defer manager.Close()

	if err := manager.Select(r.Context(), r.URL.Query().Get("studentId")); err != nil {
		sink.renderError(err)
		return
	}

	<-r.Context().Done()
}

// sseSink renders snapshots as server-sent events. The client replaces its
// whole list on every snapshot event.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

var _ ports.SnapshotSink = (*sseSink)(nil)

func (s *sseSink) RenderSnapshot(snapshot ports.RecordSnapshot) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "event: snapshot\ndata: %s\n\n", body)
	s.flusher.Flush()
}

func (s *sseSink) RenderNoSelection() {
	fmt.Fprint(s.w, "event: no-selection\ndata: {\"message\":\"Selecciona un alumno.\"}\n\n")
	s.flusher.Flush()
}

func (s *sseSink) renderError(err error) {
	body, _ := json.Marshal(errorResponse{Error: err.Error()})
	fmt.Fprintf(s.w, "event: error\ndata: %s\n\n", body)
	s.flusher.Flush()
}
