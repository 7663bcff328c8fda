package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"healthportal/m/domain"
	"healthportal/m/internal/report"
)

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Activity.Stats(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) dashboardActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}
	items, err := h.Activity.RecentActivity(r.Context(), sessionFrom(r), limit)
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) dashboardReport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var (
		profile domain.Profile
		stats   domain.Stats
		items   []domain.ActivityItem
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		profile, _, err = h.Identity.Profile(ctx, sess)
		return err
	})
	g.Go(func() (err error) {
		stats, err = h.Activity.Stats(ctx, sess)
		return err
	})
	g.Go(func() (err error) {
		items, err = h.Activity.RecentActivity(ctx, sess, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		respondFailure(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, profile, stats, items, time.Now().UTC()); err != nil {
		respondFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="health-summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.Inbox.List(r.Context(), sessionFrom(r))
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}
