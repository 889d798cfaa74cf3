package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/promptlens/promptlens/internal/session"
)

func (s *Server) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("unable to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, code int) {
	s.logger.Error(message)
	http.Error(w, message, code)
}

// getSessionOrError resolves the {id} path value to a live session.
func (s *Server) getSessionOrError(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		s.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSessionOrError(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.getSessionOrError(w, r); !ok {
		return
	}
	s.sessions.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmitImage accepts a multipart upload and feeds it to the state
// machine. Validation is the declared part Content-Type only; the outcome,
// valid or not, is reported through the session snapshot.
func (s *Server) handleSubmitImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSessionOrError(w, r)
	if !ok {
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, "image file required", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error("failed to close upload file", "error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	mediaType := header.Header.Get("Content-Type")
	s.writeJSON(w, http.StatusOK, sess.SubmitImage(data, mediaType))
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSessionOrError(w, r)
	if !ok {
		return
	}

	data, mediaType, err := sess.Image()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write preview failed", "session_id", sess.ID, "error", err)
	}
}

// handleGenerate starts the asynchronous generation. The request context is
// detached so the call runs to completion even if the page navigates away;
// the outcome lands in the session for the next poll.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSessionOrError(w, r)
	if !ok {
		return
	}

	view := sess.StartGeneration(context.WithoutCancel(r.Context()), s.describer)
	code := http.StatusOK
	if view.Status == session.StatusGenerating {
		code = http.StatusAccepted
	}
	s.writeJSON(w, code, view)
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSessionOrError(w, r)
	if !ok {
		return
	}

	text, ok := sess.MarkCopied()
	if !ok {
		s.writeError(w, "Nothing to copy", http.StatusConflict)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSessionOrError(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Reset())
}
