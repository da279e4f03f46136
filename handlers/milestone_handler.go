package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/services"
)

type MilestoneHandler struct {
	service *services.MilestoneService
}

func NewMilestoneHandler(service *services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{service: service}
}

// Register mounts the milestone routes under /api/Milestone.
func (h *MilestoneHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/api/Milestone").Subrouter()
	s.HandleFunc("/GetAll", h.GetAll).Methods(http.MethodGet)
	s.HandleFunc("/GetById/{id}", h.GetByID).Methods(http.MethodGet)
	s.HandleFunc("/GetByName/{name}", h.GetByName).Methods(http.MethodGet)
	s.HandleFunc("/GetByDescription/{description}", h.GetByDescription).Methods(http.MethodGet)
	s.HandleFunc("/GetByProjectId/{id}", h.GetByProjectID).Methods(http.MethodGet)
	s.HandleFunc("/GetByMemberId/{id}", h.GetByMemberID).Methods(http.MethodGet)
	s.HandleFunc("/GetByMemberName/{name}", h.GetByMemberName).Methods(http.MethodGet)
	s.HandleFunc("/GetByStatus/{status}", h.GetByStatus).Methods(http.MethodGet)
	s.HandleFunc("/GetByStartAfter/{datetime}", h.GetByStartAfter).Methods(http.MethodGet)
	s.HandleFunc("/GetByEndBefore/{datetime}", h.GetByEndBefore).Methods(http.MethodGet)
	s.HandleFunc("/CreateMilestone", h.Create).Methods(http.MethodPost)
	s.HandleFunc("/UpdateMilestone/{id}", h.Update).Methods(http.MethodPut)
	s.HandleFunc("/DeleteMilestone/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *MilestoneHandler) list(w http.ResponseWriter, r *http.Request, milestones []models.Milestone, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, milestones)
}

func (h *MilestoneHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.GetAll(r.Context())
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	milestone, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.GetByName(r.Context(), mux.Vars(r)["name"])
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByDescription(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.GetByDescription(r.Context(), mux.Vars(r)["description"])
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByProjectID(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.GetByProjectID(r.Context(), mux.Vars(r)["id"])
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByMemberID(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.GetByMemberID(r.Context(), mux.Vars(r)["id"])
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByMemberName(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.GetByMemberName(r.Context(), mux.Vars(r)["name"])
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(mux.Vars(r)["status"])
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	milestones, err := h.service.GetByStatus(r.Context(), status)
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByStartAfter(w http.ResponseWriter, r *http.Request) {
	t, err := parseDatetime(mux.Vars(r)["datetime"])
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	milestones, err := h.service.GetByStartAfter(r.Context(), t)
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) GetByEndBefore(w http.ResponseWriter, r *http.Request) {
	t, err := parseDatetime(mux.Vars(r)["datetime"])
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	milestones, err := h.service.GetByEndBefore(r.Context(), t)
	h.list(w, r, milestones, err)
}

func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var milestone models.Milestone
	if !decodeBody(w, r, &milestone) {
		return
	}
	created, err := h.service.Create(r.Context(), &milestone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "Milestone", created.ID.Hex(), created)
}

func (h *MilestoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	var milestone models.Milestone
	if !decodeBody(w, r, &milestone) {
		return
	}
	if err := h.service.Update(r.Context(), mux.Vars(r)["id"], &milestone); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "Milestone updated")
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "Milestone removed")
}
