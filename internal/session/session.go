package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/promptlens/promptlens/internal/describe"
	"github.com/promptlens/promptlens/internal/preview"
)

const (
	msgInvalidImage = "Please select a valid image file."
	msgNoImage      = "Please select an image first."
	failurePrefix   = "Failed to generate prompt: "
	msgUnknown      = "An unknown error occurred during generation"
)

// copyFeedbackDelay is how long the copy confirmation stays active.
const copyFeedbackDelay = 2000 * time.Millisecond

// Session owns the interaction state for one user: the accepted image, the
// generated prompt text and the error message are mutually exclusive outputs
// of a single state machine. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu            sync.Mutex
	status        Status
	imageKey      string // display handle; "" means no image held
	generatedText string
	errorMessage  string

	copyActive bool
	copyTimer  *time.Timer
	copyDelay  time.Duration

	// gen is bumped by every state-changing operation; a generation result
	// whose captured value is stale is discarded so a late response can
	// never overwrite newer state.
	gen uint64

	lastActive time.Time

	previews *preview.Registry
	logger   *slog.Logger
}

func newSession(id string, previews *preview.Registry, logger *slog.Logger) *Session {
	return &Session{
		ID:         id,
		status:     StatusIdle,
		copyDelay:  copyFeedbackDelay,
		lastActive: time.Now(),
		previews:   previews,
		logger:     logger,
	}
}

// View is the JSON shape handed to the page.
type View struct {
	ID                 string `json:"id"`
	Status             Status `json:"status"`
	HasImage           bool   `json:"has_image"`
	GeneratedText      string `json:"generated_text"`
	ErrorMessage       string `json:"error_message"`
	CopyFeedbackActive bool   `json:"copy_feedback_active"`
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:                 s.ID,
		Status:             s.status,
		HasImage:           s.imageKey != "",
		GeneratedText:      s.generatedText,
		ErrorMessage:       s.errorMessage,
		CopyFeedbackActive: s.copyActive,
	}
}

// SubmitImage validates the declared media type and stores the image. Only
// the type prefix is checked; there is no content sniffing and no size limit.
// A valid image re-enters previewing from any state and clears prior outputs.
func (s *Session) SubmitImage(data []byte, mediaType string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.gen++

	if !strings.HasPrefix(mediaType, "image/") {
		s.releaseImage()
		s.status = StatusError
		s.errorMessage = msgInvalidImage
		s.generatedText = ""
		s.logger.Info("image rejected", "session_id", s.ID, "media_type", mediaType)
		return s.viewLocked()
	}

	s.releaseImage()
	s.imageKey = s.previews.Acquire(data, mediaType)
	s.status = StatusPreviewing
	s.generatedText = ""
	s.errorMessage = ""
	s.logger.Info("image accepted", "session_id", s.ID, "media_type", mediaType, "bytes", len(data))
	return s.viewLocked()
}

// StartGeneration triggers exactly one Describer call, asynchronously. With
// no image held it moves to the error state without invoking the Describer.
// A call while already generating is a no-op; the page disables the control,
// and the generation counter makes a duplicate harmless regardless.
func (s *Session) StartGeneration(ctx context.Context, d describe.Describer) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.imageKey == "" {
		s.gen++
		s.status = StatusError
		s.errorMessage = msgNoImage
		s.generatedText = ""
		return s.viewLocked()
	}
	if s.status == StatusGenerating {
		return s.viewLocked()
	}

	data, mediaType, err := s.previews.Get(s.imageKey)
	if err != nil {
		// Handle was swept out from under us; treat as no image.
		s.gen++
		s.imageKey = ""
		s.status = StatusError
		s.errorMessage = msgNoImage
		s.generatedText = ""
		return s.viewLocked()
	}

	s.gen++
	myGen := s.gen
	s.status = StatusGenerating
	s.generatedText = ""
	s.errorMessage = ""
	s.logger.Info("generation started", "session_id", s.ID, "media_type", mediaType)

	go func() {
		text, err := d.Describe(ctx, data, mediaType)
		s.finish(myGen, text, err)
	}()

	return s.viewLocked()
}

// finish applies a generation outcome unless a newer operation superseded it.
func (s *Session) finish(myGen uint64, text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if myGen != s.gen {
		s.logger.Info("stale generation result discarded", "session_id", s.ID)
		return
	}

	if err != nil {
		var genErr *describe.Error
		if !errors.As(err, &genErr) {
			genErr = describe.NewUnknownError(msgUnknown, err)
		}
		s.status = StatusError
		s.errorMessage = failurePrefix + genErr.Message
		s.generatedText = ""
		s.logger.Error("generation failed", "session_id", s.ID, "error", err)
		return
	}

	s.status = StatusSuccess
	s.generatedText = text
	s.errorMessage = ""
	s.logger.Info("generation complete", "session_id", s.ID, "chars", len(text))
}

// MarkCopied reports the text the page should write to the clipboard and arms
// the feedback timer. Re-arming cancels any pending clear so a stale timer
// never flickers the confirmation off early.
func (s *Session) MarkCopied() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.generatedText == "" {
		return "", false
	}

	s.copyActive = true
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.copyTimer = time.AfterFunc(s.copyDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.copyActive = false
	})
	return s.generatedText, true
}

// Reset returns to idle unconditionally, releasing the display handle and
// discarding every output, whatever state the session was in.
func (s *Session) Reset() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.gen++

	s.releaseImage()
	s.status = StatusIdle
	s.generatedText = ""
	s.errorMessage = ""
	s.copyActive = false
	if s.copyTimer != nil {
		s.copyTimer.Stop()
		s.copyTimer = nil
	}
	return s.viewLocked()
}

// Image returns the held image for preview rendering.
func (s *Session) Image() ([]byte, string, error) {
	s.mu.Lock()
	key := s.imageKey
	s.mu.Unlock()
	if key == "" {
		return nil, "", errors.New("no image held")
	}
	return s.previews.Get(key)
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// releaseImage drops the held display handle. Callers must hold s.mu.
func (s *Session) releaseImage() {
	if s.imageKey != "" {
		s.previews.Release(s.imageKey)
		s.imageKey = ""
	}
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

func (s *Session) viewLocked() View {
	return View{
		ID:                 s.ID,
		Status:             s.status,
		HasImage:           s.imageKey != "",
		GeneratedText:      s.generatedText,
		ErrorMessage:       s.errorMessage,
		CopyFeedbackActive: s.copyActive,
	}
}
