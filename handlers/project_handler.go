package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/services"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Register mounts the project routes under /api/Project.
func (h *ProjectHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/api/Project").Subrouter()
	s.HandleFunc("/GetAll", h.GetAll).Methods(http.MethodGet)
	s.HandleFunc("/GetById/{id}", h.GetByID).Methods(http.MethodGet)
	s.HandleFunc("/GetByName/{name}", h.GetByName).Methods(http.MethodGet)
	s.HandleFunc("/GetByMemberId/{id}", h.GetByMemberID).Methods(http.MethodGet)
	s.HandleFunc("/GetByMemberName/{name}", h.GetByMemberName).Methods(http.MethodGet)
	s.HandleFunc("/GetByMilestoneName/{name}", h.GetByMilestoneName).Methods(http.MethodGet)
	s.HandleFunc("/GetByMilestoneDescription/{description}", h.GetByMilestoneDescription).Methods(http.MethodGet)
	s.HandleFunc("/GetByStatus/{status}", h.GetByStatus).Methods(http.MethodGet)
	s.HandleFunc("/GetByStartAfter/{datetime}", h.GetByStartAfter).Methods(http.MethodGet)
	s.HandleFunc("/GetByEndBefore/{datetime}", h.GetByEndBefore).Methods(http.MethodGet)
	s.HandleFunc("/CreateProject", h.Create).Methods(http.MethodPost)
	s.HandleFunc("/UpdateProject/{id}", h.Update).Methods(http.MethodPut)
	s.HandleFunc("/DeleteProject/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *ProjectHandler) list(w http.ResponseWriter, r *http.Request, projects []models.Project, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetAll(r.Context())
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetByName(r.Context(), mux.Vars(r)["name"])
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByMemberID(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetByMemberID(r.Context(), mux.Vars(r)["id"])
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByMemberName(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetByMemberName(r.Context(), mux.Vars(r)["name"])
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByMilestoneName(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetByMilestoneName(r.Context(), mux.Vars(r)["name"])
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByMilestoneDescription(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetByMilestoneDescription(r.Context(), mux.Vars(r)["description"])
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(mux.Vars(r)["status"])
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	projects, err := h.service.GetByStatus(r.Context(), status)
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByStartAfter(w http.ResponseWriter, r *http.Request) {
	t, err := parseDatetime(mux.Vars(r)["datetime"])
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	projects, err := h.service.GetByStartAfter(r.Context(), t)
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) GetByEndBefore(w http.ResponseWriter, r *http.Request) {
	t, err := parseDatetime(mux.Vars(r)["datetime"])
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	projects, err := h.service.GetByEndBefore(r.Context(), t)
	h.list(w, r, projects, err)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !decodeBody(w, r, &project) {
		return
	}
	created, err := h.service.Create(r.Context(), &project)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "Project", created.ID.Hex(), created)
}

// Update also attaches the inbound milestones that have no id yet.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !decodeBody(w, r, &project) {
		return
	}
	if err := h.service.Update(r.Context(), mux.Vars(r)["id"], &project); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "Project updated")
}

// Delete removes the project together with its milestones.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "Project removed")
}
