package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zabuzara/project-milestone-dashboard-backend/models"
	"github.com/zabuzara/project-milestone-dashboard-backend/services"
)

type MemberHandler struct {
	service *services.MemberService
}

func NewMemberHandler(service *services.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// Register mounts the member routes under /api/Member.
func (h *MemberHandler) Register(r *mux.Router) {
	s := r.PathPrefix("/api/Member").Subrouter()
	s.HandleFunc("/GetAll", h.GetAll).Methods(http.MethodGet)
	s.HandleFunc("/GetById/{id}", h.GetByID).Methods(http.MethodGet)
	s.HandleFunc("/GetByName/{name}", h.GetByName).Methods(http.MethodGet)
	s.HandleFunc("/CreateMember", h.Create).Methods(http.MethodPost)
	s.HandleFunc("/UpdateMember/{id}", h.Update).Methods(http.MethodPut)
	s.HandleFunc("/DeleteMember/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *MemberHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.GetByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var member models.Member
	if !decodeBody(w, r, &member) {
		return
	}
	created, err := h.service.Create(r.Context(), &member)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "Member", created.ID.Hex(), created)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	var member models.Member
	if !decodeBody(w, r, &member) {
		return
	}
	if err := h.service.Update(r.Context(), mux.Vars(r)["id"], &member); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "Member updated")
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, "Member removed")
}
