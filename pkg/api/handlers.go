package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/acestep/studio/pkg/handler"
	"github.com/acestep/studio/pkg/webui"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Deps are the collaborators the API routes need.
type Deps struct {
	Page     *webui.Page
	Sessions *SessionManager
	DiT      *handler.DiTHandler
	Dataset  *handler.DatasetHandler
}

// PageResponse is the response for GET /api/page.
type PageResponse struct {
	SessionID string      `json:"sessionId"`
	Page      *webui.Page `json:"page"`
}

// EventRequest is the request body for POST /api/sessions/{sid}/events/{bid}.
type EventRequest struct {
	Values map[string]any `json:"values"`
}

// EventResponse carries the updates an event produced, keyed by component ID.
type EventResponse struct {
	Updates map[string]webui.Update `json:"updates"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The studio serves localhost demos; cross-origin pages are not expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PageHandler handles GET /api/page: it registers a session and returns the
// serialized page.
func (d Deps) PageHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := d.Sessions.Create()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PageResponse{SessionID: id, Page: d.Page})
}

// EventHandler handles POST /api/sessions/{sid}/events/{bid}: it dispatches a
// binding against the session with the client's current input values.
func (d Deps) EventHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	session, ok := d.Sessions.Get(vars["sid"])
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if d.Page.Binding(vars["bid"]) == nil {
		http.Error(w, "Binding not found", http.StatusNotFound)
		return
	}

	updates, err := session.Dispatch(r.Context(), vars["bid"], req.Values)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EventResponse{Updates: updates})
}

// LoadMessage is one websocket frame emitted while the load chain runs.
type LoadMessage struct {
	Type    string                  `json:"type"` // "load", "loadDone", "error"
	Updates map[string]webui.Update `json:"updates,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// WSHandler handles GET /api/ws?session={sid}: on connect it executes the
// page's load steps strictly in order, pushing each step's updates before the
// next step starts.
func (d Deps) WSHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := d.Sessions.Get(r.URL.Query().Get("session"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[api] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	err = session.RunLoad(r.Context(), func(updates map[string]webui.Update) error {
		return conn.WriteJSON(LoadMessage{Type: "load", Updates: updates})
	})
	if err != nil {
		conn.WriteJSON(LoadMessage{Type: "error", Error: err.Error()})
		return
	}
	conn.WriteJSON(LoadMessage{Type: "loadDone"})

	// Keep the connection open until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// AudioHandler handles GET /api/audio/{id}: it serves a generated track.
func (d Deps) AudioHandler(w http.ResponseWriter, r *http.Request) {
	track, err := d.DiT.Track(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Track not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, track.Path)
}

// SampleAudioHandler handles GET /api/audio/sample/{id}: it serves a dataset
// sample's audio file.
func (d Deps) SampleAudioHandler(w http.ResponseWriter, r *http.Request) {
	sample, err := d.Dataset.Sample(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Sample not found", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(sample.AudioPath); err != nil {
		http.Error(w, "Audio file missing", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, sample.AudioPath)
}

// RegisterRoutes attaches the API routes to the router.
func RegisterRoutes(router *mux.Router, d Deps) {
	router.HandleFunc("/api/page", d.PageHandler).Methods("GET")
	router.HandleFunc("/api/sessions/{sid}/events/{bid}", d.EventHandler).Methods("POST")
	router.HandleFunc("/api/ws", d.WSHandler).Methods("GET")
	router.HandleFunc("/api/audio/sample/{id}", d.SampleAudioHandler).Methods("GET")
	router.HandleFunc("/api/audio/{id}", d.AudioHandler).Methods("GET")
}
