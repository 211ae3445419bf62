package in

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"

	"planote/internal/modules/plan/dto"
	planin "planote/internal/modules/plan/port/in"
	apperrors "planote/internal/platform/errors"
)

const dateLayout = "2006-01-02"

// HTTPHandler serves a read-only JSON view of the plan.
type HTTPHandler struct {
	usecase planin.Usecase
	log     hclog.Logger
}

func NewHTTPHandler(usecase planin.Usecase, log hclog.Logger) HTTPHandler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return HTTPHandler{usecase: usecase, log: log.Named("http")}
}

type entryJSON struct {
	ID    int64  `json:"id"`
	Scale string `json:"scale"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

type taskJSON struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Done        bool   `json:"done"`
}

type scaleStatsJSON struct {
	Scale     string `json:"scale"`
	Upcoming  int    `json:"upcoming"`
	Past      int    `json:"past"`
	Tasks     int    `json:"tasks"`
	TasksDone int    `json:"tasks_done"`
}

type statsJSON struct {
	From       string           `json:"from"`
	Scales     []scaleStatsJSON `json:"scales"`
	TotalTasks int              `json:"total_tasks"`
	DoneTasks  int              `json:"done_tasks"`
	Next       *entryJSON       `json:"next,omitempty"`
}

func (h HTTPHandler) Router() *mux.Router {
	r := mux.NewRouter()
	h.Register(r)
	return r
}

func (h HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/stats", h.stats).Methods(http.MethodGet)
	api.HandleFunc("/{scale}", h.listEntries).Methods(http.MethodGet)
	api.HandleFunc("/{scale}/{id:[0-9]+}/tasks", h.listTasks).Methods(http.MethodGet)
}

func (h HTTPHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h HTTPHandler) listEntries(w http.ResponseWriter, r *http.Request) {
	scale, ok := pluralScale(mux.Vars(r)["scale"])
	if !ok {
		h.writeError(w, http.StatusBadRequest, "unknown scale")
		return
	}
	input := dto.ListEntriesInput{Scale: scale, Cutoff: h.usecase.Today()}
	q := r.URL.Query()
	if raw := q.Get("before"); raw != "" {
		cutoff, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "before must be YYYY-MM-DD")
			return
		}
		input.Cutoff, input.Before = cutoff, true
	} else if raw := q.Get("from"); raw != "" {
		cutoff, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		input.Cutoff = cutoff
	}
	entries, err := h.usecase.ListEntries(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryJSON(e))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scale, ok := pluralScale(vars["scale"])
	if !ok {
		h.writeError(w, http.StatusBadRequest, "unknown scale")
		return
	}
	ownerID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	tasks, err := h.usecase.ListTasks(r.Context(), scale, ownerID)
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskJSON{ID: t.ID, OwnerID: t.OwnerID, Title: t.Title, Description: t.Description, Done: t.Done})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) stats(w http.ResponseWriter, r *http.Request) {
	cutoff := h.usecase.Today()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		cutoff = parsed
	}
	stats, err := h.usecase.Stats(r.Context(), cutoff)
	if err != nil {
		h.fail(w, err)
		return
	}
	out := statsJSON{From: stats.Cutoff.Format(dateLayout), TotalTasks: stats.TotalTasks, DoneTasks: stats.DoneTasks}
	for _, sc := range stats.Scales {
		out.Scales = append(out.Scales, scaleStatsJSON(sc))
	}
	if stats.Next != nil {
		next := toEntryJSON(*stats.Next)
		out.Next = &next
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h HTTPHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h HTTPHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("encode response", "error", err)
	}
}

func toEntryJSON(e dto.EntryOutput) entryJSON {
	return entryJSON{ID: e.ID, Scale: e.Scale, Title: e.Title, Date: e.Date.Format(dateLayout)}
}

// pluralScale maps the collection name in a path ("days") to its scale.
func pluralScale(raw string) (string, bool) {
	switch s := strings.TrimSuffix(strings.ToLower(raw), "s"); s {
	case "day", "month", "year":
		return s, true
	default:
		return "", false
	}
}
