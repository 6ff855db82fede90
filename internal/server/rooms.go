package server

import (
	"encoding/json"
	"log"
	"net/http"
)

type createRoomRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	IsPublic *bool  `json:"isPublic"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Capacity <= 0 || req.IsPublic == nil {
		http.Error(w, "name, capacity and isPublic are required", http.StatusBadRequest)
		return
	}

	created := s.registry.Create(req.Name, req.Capacity, *req.IsPublic)
	writeJSON(w, http.StatusCreated, created.Summary())
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.registry.List()
	log.Printf("GET on /api/rooms returned %d rooms", len(rooms))
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, rm.Summary())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
