package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/auth"
	"quizmaster-service/internal/domain"
)

// API wires the quiz and auth use cases into HTTP handlers.
type API struct {
	auth    *auth.Service
	service *app.QuizService
	log     *slog.Logger
}

func NewAPI(authService *auth.Service, service *app.QuizService, log *slog.Logger) *API {
	if log == nil {
		log = slog.Default()
	}
	return &API{auth: authService, service: service, log: log}
}

// Register mounts all routes on the mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/auth/signup", a.handleSignup)
	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.HandleFunc("GET /api/auth/me", a.requireAuth(a.handleMe))

	mux.HandleFunc("GET /api/quizzes", a.handleListQuizzes)
	mux.HandleFunc("POST /api/quizzes", a.requireAuth(a.handleCreateQuiz))
	mux.HandleFunc("GET /api/quizzes/{id}", a.handleGetQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/submit", a.requireAuth(a.handleSubmitQuiz))

	mux.HandleFunc("GET /api/results", a.requireAuth(a.handleListResults))
	mux.HandleFunc("GET /api/results/{id}", a.requireAuth(a.handleGetResult))

	mux.HandleFunc("GET /api/dashboard", a.requireAuth(a.handleDashboard))
	mux.HandleFunc("GET /api/leaderboard", a.handleLeaderboard)

	mux.HandleFunc("GET /api/profile", a.requireAuth(a.handleMe))
	mux.HandleFunc("PUT /api/profile", a.requireAuth(a.handleUpdateProfile))
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	user, token, err := a.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "user created successfully", Token: token, User: user})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	user, token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "login successful", Token: token, User: user})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.GetUser(r.Context(), verifiedUserID(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	user, err := a.auth.UpdateProfile(r.Context(), verifiedUserID(r), auth.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string      `json:"message"`
		User    domain.User `json:"user"`
	}{Message: "profile updated successfully", User: user})
}

func (a *API) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := a.service.ListQuizzes(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Quizzes []domain.RedactedQuiz `json:"quizzes"`
	}{Quizzes: quizzes})
}

func (a *API) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := a.service.GetQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (a *API) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Difficulty  string            `json:"difficulty"`
		Category    string            `json:"category"`
		Questions   []domain.Question `json:"questions"`
		TimeLimit   *int              `json:"time_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	quiz, err := a.service.CreateQuiz(r.Context(), app.CreateQuizInput{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  domain.Difficulty(req.Difficulty),
		Category:    req.Category,
		Questions:   req.Questions,
		TimeLimit:   req.TimeLimit,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string              `json:"message"`
		Quiz    domain.RedactedQuiz `json:"quiz"`
	}{Message: "quiz created successfully", Quiz: quiz.Redacted()})
}

func (a *API) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers   []int `json:"answers"`
		TimeTaken *int  `json:"time_taken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	result, err := a.service.SubmitQuiz(r.Context(), domain.Submission{
		UserID:    verifiedUserID(r),
		QuizID:    r.PathValue("id"),
		Answers:   req.Answers,
		TimeTaken: req.TimeTaken,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string        `json:"message"`
		Result  domain.Result `json:"result"`
	}{Message: "quiz submitted successfully", Result: result})
}

func (a *API) handleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := a.service.ListResults(r.Context(), verifiedUserID(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Results []domain.Result `json:"results"`
	}{Results: results})
}

func (a *API) handleGetResult(w http.ResponseWriter, r *http.Request) {
	detail, err := a.service.GetResult(r.Context(), r.PathValue("id"), verifiedUserID(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := a.service.GetDashboard(r.Context(), verifiedUserID(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := a.service.GetLeaderboard(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// writeError maps each error kind to a distinct status; nothing is swallowed.
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		a.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, messageResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
