package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
)

type HTTPHandler struct {
	Registry *Registry
	Config   *Config
	Resume   *SeatResume
}

func NewHTTPServer(registry *Registry, config *Config, resume *SeatResume) http.Handler {
	httpHandler := HTTPHandler{registry, config, resume}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/"))

	r.Get("/paragraph", httpHandler.getParagraph())
	r.Post("/results", httpHandler.computeResults())

	r.Route("/sessions", func(r chi.Router) {
		// Status polls arrive once per interval per client and stay
		// unthrottled; mutations get the tight per-IP limit.
		r.Get("/{sessionCode}", httpHandler.getSessionStatus())

		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(30, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))
			r.Post("/", httpHandler.createSession())
			r.Post("/resume", httpHandler.resumeSeat())
			r.Post("/{sessionCode}/join", httpHandler.joinSession())
			r.Post("/{sessionCode}/start", httpHandler.startCompetition())
			r.Post("/{sessionCode}/confirm", httpHandler.confirmCountdown())
			r.Post("/{sessionCode}/results", httpHandler.submitResult())
			r.Post("/{sessionCode}/reset", httpHandler.resetSession())
		})
	})
	return r
}

type participantRequest struct {
	ParticipantID string `json:"participantId"`
}

type resultPayload struct {
	WPM       float64 `json:"wpm"`
	Accuracy  float64 `json:"accuracy"`
	TimeTaken float64 `json:"timeTaken"`
}

func roundedResults(results map[string]ParticipantResult) map[string]resultPayload {
	rounded := make(map[string]resultPayload, len(results))
	for participantID, result := range results {
		rounded[participantID] = resultPayload{
			WPM:       Round2(result.WPM),
			Accuracy:  Round2(result.Accuracy),
			TimeTaken: Round2(result.TimeTaken),
		}
	}
	return rounded
}

func (h HTTPHandler) createSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := DecodeBody[participantRequest](r)
		participantID := body.ParticipantID
		if participantID == "" {
			participantID = uuid.NewString()
		}
		session, err := h.Registry.CreateSession(participantID)
		if err != nil {
			WriteError(w, err)
			return
		}
		LogCreatedSession(session.Code())
		resumeToken, _ := h.Resume.GenerateResumeToken(session.Code(), participantID)
		WriteJSON(w, http.StatusCreated, struct {
			Status         string `json:"status"`
			Code           string `json:"code"`
			ParticipantID  string `json:"participantId"`
			IsAdmin        bool   `json:"isAdmin"`
			PollIntervalMs int64  `json:"pollIntervalMs"`
			ResumeToken    string `json:"resumeToken,omitempty"`
		}{
			Status:         "created",
			Code:           session.Code(),
			ParticipantID:  participantID,
			IsAdmin:        true,
			PollIntervalMs: h.Config.PollInterval.Milliseconds(),
			ResumeToken:    resumeToken,
		})
	}
}

func (h HTTPHandler) joinSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionCode := chi.URLParam(r, "sessionCode")
		body := DecodeBody[participantRequest](r)
		participantID := body.ParticipantID
		if participantID == "" {
			participantID = uuid.NewString()
		}
		count, err := h.Registry.JoinSession(sessionCode, participantID)
		if err != nil {
			WriteError(w, err)
			return
		}
		session, err := h.Registry.GetSession(sessionCode)
		if err != nil {
			WriteError(w, err)
			return
		}
		GetSessionLogger(sessionCode, participantID).JoinedSession(count)
		resumeToken, _ := h.Resume.GenerateResumeToken(sessionCode, participantID)
		WriteJSON(w, http.StatusOK, struct {
			Status           string `json:"status"`
			ParticipantID    string `json:"participantId"`
			ParticipantCount int    `json:"participantCount"`
			IsAdmin          bool   `json:"isAdmin"`
			PollIntervalMs   int64  `json:"pollIntervalMs"`
			ResumeToken      string `json:"resumeToken,omitempty"`
		}{
			Status:           "joined",
			ParticipantID:    participantID,
			ParticipantCount: count,
			IsAdmin:          session.AdminID() == participantID,
			PollIntervalMs:   h.Config.PollInterval.Milliseconds(),
			ResumeToken:      resumeToken,
		})
	}
}

type statusResponse struct {
	Status           SessionState             `json:"status"`
	Participants     []string                 `json:"participants"`
	Paragraph        string                   `json:"paragraph,omitempty"`
	CountdownSeconds float64                  `json:"countdownSeconds,omitempty"`
	ShowCountdown    bool                     `json:"showCountdown,omitempty"`
	Results          map[string]resultPayload `json:"results,omitempty"`
	WinnerID         string                   `json:"winnerId,omitempty"`
	WinnerScore      float64                  `json:"winnerScore,omitempty"`
}

func (h HTTPHandler) getSessionStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionCode := chi.URLParam(r, "sessionCode")
		participantID := r.URL.Query().Get("participantId")
		session, err := h.Registry.GetSession(sessionCode)
		if err != nil {
			WriteError(w, err)
			return
		}
		view := session.View(participantID)
		response := statusResponse{
			Status:           view.Status,
			Participants:     view.Participants,
			Paragraph:        view.Paragraph,
			CountdownSeconds: Round2(view.CountdownSeconds),
			ShowCountdown:    view.ShowCountdown,
			WinnerID:         view.WinnerID,
			WinnerScore:      Round2(view.WinnerScore),
		}
		if view.Results != nil {
			response.Results = roundedResults(view.Results)
		}
		WriteJSON(w, http.StatusOK, response)
	}
}

func (h HTTPHandler) startCompetition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionCode := chi.URLParam(r, "sessionCode")
		body := DecodeBody[participantRequest](r)
		session, err := h.Registry.GetSession(sessionCode)
		if err != nil {
			WriteError(w, err)
			return
		}
		countdownDuration := time.Duration(h.Config.CountdownSeconds) * time.Second
		paragraph, err := session.Start(body.ParticipantID, RandomParagraph(), countdownDuration)
		if err != nil {
			WriteError(w, err)
			return
		}
		GetSessionLogger(sessionCode, body.ParticipantID).CountdownStarted()
		WriteJSON(w, http.StatusOK, struct {
			Status           string `json:"status"`
			Paragraph        string `json:"paragraph"`
			CountdownSeconds int    `json:"countdownSeconds"`
		}{
			Status:           "countdown_started",
			Paragraph:        paragraph,
			CountdownSeconds: h.Config.CountdownSeconds,
		})
	}
}

func (h HTTPHandler) confirmCountdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionCode := chi.URLParam(r, "sessionCode")
		body := DecodeBody[participantRequest](r)
		session, err := h.Registry.GetSession(sessionCode)
		if err != nil {
			WriteError(w, err)
			return
		}
		if err := session.ConfirmCountdown(body.ParticipantID); err != nil {
			WriteError(w, err)
			return
		}
		GetSessionLogger(sessionCode, body.ParticipantID).BattleStarted()
		WriteJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
		}{Status: "battle_started"})
	}
}

type submitRequest struct {
	ParticipantID string  `json:"participantId"`
	WPM           float64 `json:"wpm"`
	Accuracy      float64 `json:"accuracy"`
	TimeTaken     float64 `json:"timeTaken"`
}

func (h HTTPHandler) submitResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionCode := chi.URLParam(r, "sessionCode")
		body := DecodeBody[submitRequest](r)
		session, err := h.Registry.GetSession(sessionCode)
		if err != nil {
			WriteError(w, err)
			return
		}
		outcome, err := session.SubmitResult(body.ParticipantID, body.WPM, body.Accuracy, body.TimeTaken)
		if err != nil {
			WriteError(w, err)
			return
		}
		logger := GetSessionLogger(sessionCode, body.ParticipantID)
		logger.ResultSubmitted(body.WPM)
		if !outcome.Finished {
			WriteJSON(w, http.StatusOK, struct {
				Status     string `json:"status"`
				WaitingFor int    `json:"waitingFor"`
			}{Status: "result_submitted", WaitingFor: outcome.WaitingFor})
			return
		}
		logger.BattleFinished(outcome.WinnerID)
		WriteJSON(w, http.StatusOK, struct {
			Status      string                   `json:"status"`
			Results     map[string]resultPayload `json:"results"`
			WinnerID    string                   `json:"winnerId"`
			WinnerScore float64                  `json:"winnerScore"`
		}{
			Status:      "finished",
			Results:     roundedResults(outcome.Results),
			WinnerID:    outcome.WinnerID,
			WinnerScore: Round2(outcome.WinnerScore),
		})
	}
}

func (h HTTPHandler) resetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionCode := chi.URLParam(r, "sessionCode")
		body := DecodeBody[participantRequest](r)
		session, err := h.Registry.GetSession(sessionCode)
		if err != nil {
			WriteError(w, err)
			return
		}
		if err := session.Reset(body.ParticipantID); err != nil {
			WriteError(w, err)
			return
		}
		GetSessionLogger(sessionCode, body.ParticipantID).SessionReset()
		WriteJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
		}{Status: "session_reset"})
	}
}

type resumeRequest struct {
	ResumeToken string `json:"resumeToken"`
}

func (h HTTPHandler) resumeSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := DecodeBody[resumeRequest](r)
		sessionCode, participantID := h.Resume.GetSeatFromResumeToken(body.ResumeToken)
		if sessionCode == "" || participantID == "" {
			WriteJSON(w, http.StatusUnauthorized, errorResponse{Status: "error", Message: "invalid resume token"})
			return
		}
		session, err := h.Registry.GetSession(sessionCode)
		if err != nil {
			WriteError(w, err)
			return
		}
		if !session.HasParticipant(participantID) {
			WriteError(w, ErrNotAParticipant)
			return
		}
		GetSessionLogger(sessionCode, participantID).ResumedSeat()
		WriteJSON(w, http.StatusOK, struct {
			Status         string `json:"status"`
			Code           string `json:"code"`
			ParticipantID  string `json:"participantId"`
			IsAdmin        bool   `json:"isAdmin"`
			PollIntervalMs int64  `json:"pollIntervalMs"`
		}{
			Status:         "resumed",
			Code:           sessionCode,
			ParticipantID:  participantID,
			IsAdmin:        session.AdminID() == participantID,
			PollIntervalMs: h.Config.PollInterval.Milliseconds(),
		})
	}
}

func (h HTTPHandler) getParagraph() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, struct {
			Paragraph string `json:"paragraph"`
		}{Paragraph: RandomParagraph()})
	}
}

type computeRequest struct {
	OriginalText string  `json:"originalText"`
	TypedText    string  `json:"typedText"`
	TimeTaken    float64 `json:"timeTaken"`
}

func (h HTTPHandler) computeResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := DecodeBody[computeRequest](r)
		result := ComputeResult(body.OriginalText, body.TypedText, body.TimeTaken)
		result.WPM = Round2(result.WPM)
		result.Accuracy = Round2(result.Accuracy)
		result.TimeTaken = Round2(result.TimeTaken)
		WriteJSON(w, http.StatusOK, result)
	}
}
