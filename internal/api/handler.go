package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"healthportal/m/domain"
	"healthportal/m/internal/activity"
	"healthportal/m/internal/appointment"
	"healthportal/m/internal/cart"
	"healthportal/m/internal/identity"
	"healthportal/m/internal/notify"
	"healthportal/m/internal/records"
	"healthportal/m/internal/symptom"
)

type ctxKey string

const ctxSession ctxKey = "session"

// Inbox lists a user's notifications.
type Inbox interface {
	List(ctx context.Context, sess domain.Session) ([]domain.Notification, error)
}

// Services are the collaborators behind the HTTP surface.
type Services struct {
	Identity  *identity.Provider
	Cart      *cart.Manager
	Scheduler *appointment.Scheduler
	Symptoms  *symptom.Analyzer
	Records   *records.Service
	Activity  *activity.Aggregator
	Notifier  notify.Notifier
	Inbox     Inbox
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	Services
	origins []string
}

// New constructs a Handler. An empty origins list allows every origin.
func New(svc Services, origins []string) *Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{Services: svc, origins: origins}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/logout", h.logout)
		})
	})

	r.Get("/medicines", h.listMedicines)
	r.Get("/doctors", h.listDoctors)
	r.Get("/slots", h.listSlots)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Get("/profile", h.getProfile)
		pr.Put("/profile", h.updateProfile)

		pr.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Post("/items", h.addCartItem)
			r.Put("/items/{medicineID}", h.setCartItem)
			r.Post("/checkout", h.checkout)
		})
		pr.Get("/orders", h.listOrders)

		pr.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.listAppointments)
			r.Post("/", h.bookAppointment)
			r.Patch("/{id}/status", h.transitionAppointment)
		})

		pr.Route("/symptom-checks", func(r chi.Router) {
			r.Get("/", h.listSymptomChecks)
			r.Post("/", h.analyzeSymptoms)
		})

		pr.Route("/health-records", func(r chi.Router) {
			r.Get("/", h.listHealthRecords)
			r.Post("/", h.createHealthRecord)
		})

		pr.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", h.dashboardStats)
			r.Get("/activity", h.dashboardActivity)
			r.Get("/report.pdf", h.dashboardReport)
		})

		pr.Get("/notifications", h.listNotifications)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sess, err := h.Identity.Authenticate(r.Context(), strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			respondFailure(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) domain.Session {
	sess, _ := r.Context().Value(ctxSession).(domain.Session)
	return sess
}

// notifyOutcome issues exactly one notification for a mutation's result.
func (h *Handler) notifyOutcome(r *http.Request, title, message string, err error) {
	sess := sessionFrom(r)
	if err != nil {
		h.Notifier.Notify(r.Context(), sess, notify.Failure(title+" failed", err))
		return
	}
	h.Notifier.Notify(r.Context(), sess, notify.Success(title, message))
}

// mutationFailed reports a mutation rejected before it reached a service.
func (h *Handler) mutationFailed(w http.ResponseWriter, r *http.Request, title string, err error) {
	h.notifyOutcome(r, title, "", err)
	respondFailure(w, err)
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, domain.Invalid(param, "must be a uuid")
	}
	return id, nil
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return domain.Invalid("body", err.Error())
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure maps service errors onto status codes.
func respondFailure(w http.ResponseWriter, err error) {
	var (
		verr *domain.ValidationError
		terr *domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.As(err, &terr):
		respondError(w, http.StatusConflict, terr.Error())
	case errors.Is(err, identity.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		log.Printf("api: %v", err)
		respondError(w, http.StatusInternalServerError, "unable to complete request")
	}
}
