package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/models"
	"github.com/salem/coop-finder/internal/seed"
)

func (s *Server) handleAdminSeed(c echo.Context) error {
	var opts seed.Options
	if raw := c.QueryParam("opportunities"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			opts.Opportunities = n
		}
	}
	if raw := c.QueryParam("students"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			opts.Students = n
		}
	}

	summary, err := seed.Run(c.Request().Context(), s.DB, s.Store, s.Catalog, opts)
	if err != nil {
		c.Logger().Errorf("Seed failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Seed complete",
		"categories":    summary.Categories,
		"opportunities": summary.Opportunities,
		"students":      summary.Students,
		"admins":        summary.Admins,
		"bookmarks":     summary.Bookmarks,
		"ratings":       summary.Ratings,
		"reports":       summary.Reports,
		"skipped":       summary.Skipped,
	})
}

func (s *Server) handleAdminListSubmissions(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", models.SubmissionPending, models.SubmissionApproved, models.SubmissionRejected:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown status filter"})
	}

	subs, err := s.Store.ListSubmissions(c.Request().Context(), status)
	if err != nil {
		c.Logger().Errorf("Failed to list submissions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"submissions": subs})
}

// handleAdminCreateSubmission files a proposal on behalf of the site. It
// needs a session token: the submitter column references a user row, which
// the shared secret does not have.
func (s *Server) handleAdminCreateSubmission(c echo.Context) error {
	adminID := adminUserID(c)
	if adminID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Admin session token required to file a submission"})
	}

	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	sub, errs := s.toSubmission(req)
	if errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Validation failed", "errors": errs})
	}
	sub.Submitter = models.Submitter{Type: models.SubmitterAdmin, ID: adminID}

	if err := s.Store.CreateSubmission(c.Request().Context(), sub); err != nil {
		if errors.Is(err, db.ErrInvalidReference) {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":  "Validation failed",
				"errors": map[string]string{"category_id": "Unknown category."},
			})
		}
		c.Logger().Errorf("Failed to create submission: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"submission": sub})
}

func (s *Server) handleApproveSubmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	opp, err := s.Store.ApproveSubmission(c.Request().Context(), id, adminUserID(c))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		if errors.Is(err, db.ErrAlreadyReviewed) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Submission already reviewed"})
		}
		c.Logger().Errorf("Failed to approve submission: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Submission approved",
		"opportunity": opp,
	})
}

func (s *Server) handleRejectSubmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if err := s.Store.RejectSubmission(c.Request().Context(), id, adminUserID(c), req.Reason); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		if errors.Is(err, db.ErrAlreadyReviewed) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Submission already reviewed"})
		}
		c.Logger().Errorf("Failed to reject submission: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Submission rejected"})
}

func (s *Server) handleAdminListReports(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", models.ReportStatusPending, models.ReportStatusReviewed, models.ReportStatusResolved:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown status filter"})
	}

	reports, err := s.Store.ListReports(c.Request().Context(), status)
	if err != nil {
		c.Logger().Errorf("Failed to list reports: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reports": reports})
}

func (s *Server) handleUpdateReportStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Status != models.ReportStatusReviewed && req.Status != models.ReportStatusResolved {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"errors": map[string]string{"status": `Must be "reviewed" or "resolved".`},
		})
	}

	if err := s.Store.UpdateReportStatus(c.Request().Context(), id, req.Status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		c.Logger().Errorf("Failed to update report: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Report updated"})
}
