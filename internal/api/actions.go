package api

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/salem/coop-finder/internal/auth"
	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/models"
)

// studentID resolves the authenticated user to their student profile.
// Admin accounts have no profile and cannot perform student actions.
func (s *Server) studentID(c echo.Context) (uuid.UUID, error) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	sid, err := s.Auth.StudentIDForUser(c.Request().Context(), userID)
	if errors.Is(err, auth.ErrNoProfile) {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "A student profile is required for this action")
	}
	if err != nil {
		c.Logger().Errorf("Failed to resolve student profile: %v", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}
	return sid, nil
}

func (s *Server) handleAddBookmark(c echo.Context) error {
	studentID, err := s.studentID(c)
	if err != nil {
		return err
	}

	var req struct {
		OpportunityID string `json:"opportunity_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	oppID, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	if err := s.Store.AddBookmark(c.Request().Context(), studentID, oppID); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Already bookmarked"})
		}
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Opportunity not found"})
		}
		c.Logger().Errorf("Failed to add bookmark: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.NoContent(http.StatusCreated)
}

func (s *Server) handleRemoveBookmark(c echo.Context) error {
	studentID, err := s.studentID(c)
	if err != nil {
		return err
	}

	oppID, err := uuid.Parse(c.Param("opportunity_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	if err := s.Store.RemoveBookmark(c.Request().Context(), studentID, oppID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not bookmarked"})
		}
		c.Logger().Errorf("Failed to remove bookmark: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleListBookmarks(c echo.Context) error {
	studentID, err := s.studentID(c)
	if err != nil {
		return err
	}

	bookmarks, err := s.Store.ListBookmarks(c.Request().Context(), studentID)
	if err != nil {
		c.Logger().Errorf("Failed to list bookmarks: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"bookmarks": bookmarks})
}

type ratingRequest struct {
	OpportunityID string `json:"opportunity_id"`
	LearningValue *int   `json:"learning_value"`
	WorkEnv       *int   `json:"work_env"`
	Mentorship    *int   `json:"mentorship"`
	Outcome       *int   `json:"outcome"`
}

// ratingOverall derives the overall score as the mean of the provided
// sub-scores, rounded to two decimals. The second return is how many
// sub-scores were provided.
func ratingOverall(scores ...*int) (float64, int) {
	sum, n := 0, 0
	for _, sc := range scores {
		if sc != nil {
			sum += *sc
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return math.Round(float64(sum)/float64(n)*100) / 100, n
}

// validateScores checks every provided sub-score is on the 1..5 scale.
func validateScores(req ratingRequest) map[string]string {
	errs := make(map[string]string)
	check := func(field string, v *int) {
		if v != nil && (*v < 1 || *v > 5) {
			errs[field] = "Score must be between 1 and 5."
		}
	}
	check("learning_value", req.LearningValue)
	check("work_env", req.WorkEnv)
	check("mentorship", req.Mentorship)
	check("outcome", req.Outcome)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Server) handleCreateRating(c echo.Context) error {
	studentID, err := s.studentID(c)
	if err != nil {
		return err
	}

	var req ratingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	oppID, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}
	if errs := validateScores(req); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Validation failed", "errors": errs})
	}

	overall, provided := ratingOverall(req.LearningValue, req.WorkEnv, req.Mentorship, req.Outcome)
	if provided == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "At least one score is required"})
	}

	rating := models.Rating{
		StudentID:     studentID,
		OpportunityID: oppID,
		LearningValue: req.LearningValue,
		WorkEnv:       req.WorkEnv,
		Mentorship:    req.Mentorship,
		Outcome:       req.Outcome,
		Overall:       overall,
	}
	avg, err := s.Store.CreateRating(c.Request().Context(), &rating)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Already rated"})
		}
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Opportunity not found"})
		}
		c.Logger().Errorf("Failed to create rating: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"rating":     rating,
		"avg_rating": avg,
	})
}

func (s *Server) handleCreateReport(c echo.Context) error {
	studentID, err := s.studentID(c)
	if err != nil {
		return err
	}

	var req struct {
		OpportunityID string `json:"opportunity_id"`
		ReportType    string `json:"report_type"`
		Details       string `json:"details"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	oppID, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}
	if !models.ValidReportType(req.ReportType) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"errors": map[string]string{"report_type": "Unknown report type."},
		})
	}

	report := models.Report{
		StudentID:     studentID,
		OpportunityID: oppID,
		ReportType:    req.ReportType,
		Details:       strings.TrimSpace(req.Details),
	}
	if err := s.Store.CreateReport(c.Request().Context(), &report); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Already reported"})
		}
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Opportunity not found"})
		}
		c.Logger().Errorf("Failed to create report: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"report": report})
}

type submissionRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Deadline    string `json:"deadline"`
	CategoryID  int    `json:"category_id"`
	CVLink      string `json:"cv_link"`
	Notes       string `json:"notes"`
}

// toSubmission validates the request and builds the submission record minus
// its submitter. Location is canonicalized against the catalog; a location
// that resolves to no catalog region is a field error rather than being
// stored raw.
func (s *Server) toSubmission(req submissionRequest) (*models.Submission, map[string]string) {
	errs := make(map[string]string)

	title := strings.TrimSpace(req.Title)
	company := strings.TrimSpace(req.Company)
	if title == "" {
		errs["title"] = "This field is required."
	}
	if company == "" {
		errs["company"] = "This field is required."
	}
	if req.CategoryID <= 0 {
		errs["category_id"] = "This field is required."
	}

	location := strings.TrimSpace(req.Location)
	if location != "" {
		location = s.Catalog.NormalizeLocation(location)
		if location == "" {
			errs["location"] = "Unknown region or city."
		}
	}

	var deadline *time.Time
	if raw := strings.TrimSpace(req.Deadline); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errs["deadline"] = "Enter a date as YYYY-MM-DD."
		} else {
			deadline = &t
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.Submission{
		Title:       title,
		Company:     company,
		Description: bluemonday.UGCPolicy().Sanitize(req.Description),
		Location:    location,
		Deadline:    deadline,
		CategoryID:  req.CategoryID,
		CVLink:      strings.TrimSpace(req.CVLink),
		Notes:       strings.TrimSpace(req.Notes),
	}, nil
}

func (s *Server) handleCreateSubmission(c echo.Context) error {
	studentID, err := s.studentID(c)
	if err != nil {
		return err
	}

	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	sub, errs := s.toSubmission(req)
	if errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": "Validation failed", "errors": errs})
	}
	sub.Submitter = models.Submitter{Type: models.SubmitterStudent, ID: studentID}

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

func (s *Server) handleMySubmissions(c echo.Context) error {
	studentID, err := s.studentID(c)
	if err != nil {
		return err
	}

	subs, err := s.Store.ListSubmissionsByStudent(c.Request().Context(), studentID)
	if err != nil {
		c.Logger().Errorf("Failed to list submissions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"submissions": subs})
}
