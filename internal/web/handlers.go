package web

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/tsvreorder/internal/logging"
	"github.com/JonMunkholm/tsvreorder/internal/reorder"
	"github.com/JonMunkholm/tsvreorder/internal/table"
)

// previewSource names the input of preview runs in logs and history.
const previewSource = "http-upload"

// RunDTO is the JSON form of one recorded run.
type RunDTO struct {
	ID          string    `json:"id"`
	InputFile   string    `json:"input_file"`
	OutputFile  string    `json:"output_file"`
	InputOrder  []string  `json:"input_order"`
	OutputOrder []string  `json:"output_order"`
	KeyMode     string    `json:"key_mode"`
	Rows        int       `json:"rows"`
	Status      string    `json:"status"`
	ErrorCode   string    `json:"error_code,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	DurationMS  int64     `json:"duration_ms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReorder reads a TSV table from the request body and responds with
// the reordered table. Nothing is written to disk.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.Reorder.MaxBodySize {
		respondError(w, r, errTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	if err := s.limiter.acquire(r.Context()); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer s.limiter.release()

	body := http.MaxBytesReader(w, r.Body, s.cfg.Reorder.MaxBodySize)

	t, err := table.Read(body)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	cfg := s.columns
	cfg.InputFile = previewSource
	cfg.OutputFile = ""

	records, result, err := s.pipeline.Preview(r.Context(), t, cfg)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := table.Write(&buf, records); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Debug("reorder served",
		"run_id", result.RunID,
		"rows", result.Rows,
	)

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("X-Row-Count", strconv.Itoa(result.Rows))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "run history is not configured",
			Message: "Run history is not available",
			Action:  "Set DATABASE_URL to enable run history",
			Code:    "HIST001",
		})
		return
	}

	limit := s.cfg.Reorder.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "invalid limit",
				Message: "The limit parameter must be a positive integer",
				Code:    "REQ002",
			})
			return
		}
		limit = min(n, s.cfg.Reorder.HistoryLimit)
	}

	runs, err := s.runs.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	out := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, out)
}

func toRunDTO(run reorder.RunRecord) RunDTO {
	return RunDTO{
		ID:          run.RunID,
		InputFile:   run.InputFile,
		OutputFile:  run.OutputFile,
		InputOrder:  run.InputOrder,
		OutputOrder: run.OutputOrder,
		KeyMode:     run.KeyMode,
		Rows:        run.Rows,
		Status:      string(run.Status),
		ErrorCode:   run.ErrorCode,
		Error:       run.Error,
		StartedAt:   run.StartedAt,
		DurationMS:  run.Duration.Milliseconds(),
	}
}
