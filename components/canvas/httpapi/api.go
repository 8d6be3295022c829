package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-canvas/components/canvas"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/commands"
	"github.com/goliatone/go-dashboard-canvas/components/canvas/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	API       Executor
	Snapshot  gocommand.Querier[queries.ViewInput, canvas.View]
	Preview   gocommand.Querier[queries.PreviewInput, queries.Preview]
	ColumnCSS gocommand.Querier[queries.ColumnCSSInput, string]
}

func (h *Handlers) HandleSetTemplate(w http.ResponseWriter, r *http.Request) {
	var payload canvas.DashboardTemplate
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.SetTemplate(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleLoad(w http.ResponseWriter, r *http.Request) {
	var payload commands.LoadCanvasInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Load(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleResize(w http.ResponseWriter, r *http.Request) {
	var payload commands.ResizeInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Resize(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleClick(w http.ResponseWriter, r *http.Request) {
	var payload commands.ClickInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Click(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleEditMode(w http.ResponseWriter, r *http.Request) {
	var payload commands.EditModeInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.EditMode(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleFullscreen(w http.ResponseWriter, r *http.Request) {
	var payload commands.FullscreenInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Fullscreen(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleDrop(w http.ResponseWriter, r *http.Request) {
	var payload commands.DropInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Drop(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleMove(w http.ResponseWriter, r *http.Request) {
	var payload commands.MoveInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Move(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.handleGetPreview(w, r)
		return
	}
	var payload commands.PreviewInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.Preview(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	input := queries.PreviewInput{ContainerWidth: queryInt(r, "container_width")}
	preview, err := h.Preview.Query(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.Snapshot.Query(r.Context(), queries.ViewInput{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleColumnCSS(w http.ResponseWriter, r *http.Request) {
	css, err := h.ColumnCSS.Query(r.Context(), queries.ColumnCSSInput{Columns: queryInt(r, "columns")})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(css))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
