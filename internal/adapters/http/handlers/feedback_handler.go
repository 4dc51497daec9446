package handlers

import (
	"mess-feedback/internal/core/services"
	"mess-feedback/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProofField is the multipart field carrying the optional proof image
const ProofField = "proof"

// FeedbackHandler handles feedback ingestion and listing
type FeedbackHandler struct {
	submitter services.FeedbackSubmitter
	lister    services.FeedbackLister
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(submitter services.FeedbackSubmitter, lister services.FeedbackLister) *FeedbackHandler {
	return &FeedbackHandler{
		submitter: submitter,
		lister:    lister,
	}
}

// Submit handles a feedback submission
// @Summary Submit feedback
// @Description Accepts a multipart form with the feedback fields and an optional proof image
// @Tags Feedback
// @Accept multipart/form-data
// @Produce json
// @Param regNo formData string true "Registration number"
// @Param name formData string true "Student name"
// @Param block formData string true "Hostel block"
// @Param room formData string true "Room number"
// @Param messName formData string true "Mess name"
// @Param messType formData string true "Veg, Non-Veg, Special or Night Mess"
// @Param category formData string true "Quality, Quantity, Hygiene or Mess Timing"
// @Param feedbackType formData string true "Suggestion, Complaint or Appreciation"
// @Param comments formData string true "Comments"
// @Param proof formData file false "Proof image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	input := &services.SubmitFeedbackInput{
		RegNo:        c.FormValue("regNo"),
		Name:         c.FormValue("name"),
		Block:        c.FormValue("block"),
		Room:         c.FormValue("room"),
		MessName:     c.FormValue("messName"),
		MessType:     c.FormValue("messType"),
		Category:     c.FormValue("category"),
		FeedbackType: c.FormValue("feedbackType"),
		Comments:     c.FormValue("comments"),
	}

	// a missing or empty file part means no attachment
	if fileHeader, err := c.FormFile(ProofField); err == nil && fileHeader.Size > 0 {
		file, err := fileHeader.Open()
		if err != nil {
			return response.InternalServerError(c, "Failed to read attachment")
		}
		defer file.Close()

		input.Proof = &services.Attachment{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      file,
		}
	}

	id, err := h.submitter.Submit(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return response.Created(c, "Feedback submitted successfully", fiber.Map{
		"insertedId": id,
	})
}

// List returns every stored feedback record, newest first
// @Summary List feedback
// @Description Returns all feedback records ordered by createdAt descending
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /feedback [get]
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	records, err := h.lister.ListAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	return response.Success(c, "Feedback retrieved successfully", records)
}
