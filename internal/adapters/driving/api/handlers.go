package api

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// CheckHandler answers liveness probes.
type CheckHandler struct{}

// NewCheckHandler creates a health check handler.
func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

// HandleHealthy reports the server is running.
func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"result": "ok"})
}

// DocumentHandler serves upload and document management.
type DocumentHandler struct {
	ingest    driving.IngestService
	documents driving.DocumentService
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(ingest driving.IngestService, documents driving.DocumentService) *DocumentHandler {
	return &DocumentHandler{ingest: ingest, documents: documents}
}

// HandleUpload ingests the multipart form field "file".
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationError("upload", "no file provided")
	}
	if header.Size > domain.MaxFileSize {
		return domain.ValidationError("upload", "%s is %d bytes, maximum is %d", header.Filename, header.Size, domain.MaxFileSize)
	}

	f, err := header.Open()
	if err != nil {
		return domain.NewError(domain.KindContentExtraction, "upload", "opening upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxFileSize+1))
	if err != nil {
		return domain.NewError(domain.KindContentExtraction, "upload", "reading upload", err)
	}

	result, err := h.ingest.Ingest(c.UserContext(), domain.UploadedFile{
		Filename:    filepath.Base(header.Filename),
		ContentType: contentType(header.Header.Get(fiber.HeaderContentType), header.Filename),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUploadResponse(result))
}

// HandleList returns every document with its chunk count.
func (h *DocumentHandler) HandleList(c *fiber.Ctx) error {
	docs, err := h.documents.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDocumentList(docs))
}

// HandleDelete removes a document and its chunks.
func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.documents.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Success: true, ID: id})
}

// HandleChunks returns a document's chunks in order.
// Embeddings are included when the query has embeddings=true.
func (h *DocumentHandler) HandleChunks(c *fiber.Ctx) error {
	chunks, err := h.documents.Chunks(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewChunkList(chunks, c.QueryBool("embeddings")))
}

// AskHandler answers questions.
type AskHandler struct {
	ask driving.AskService
}

// NewAskHandler creates a question handler.
func NewAskHandler(ask driving.AskService) *AskHandler {
	return &AskHandler{ask: ask}
}

// HandleAsk answers the question in the request body.
func (h *AskHandler) HandleAsk(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationError("ask", "invalid JSON request")
	}
	// Length limits apply to the trimmed question, as in AnswerQuestion.
	req.Question = strings.TrimSpace(req.Question)
	if err := validateRequest("ask", &req); err != nil {
		return err
	}

	answer, err := h.ask.AnswerQuestion(c.UserContext(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnswer(answer))
}

// FeedbackHandler records answer ratings.
type FeedbackHandler struct {
	feedback driving.FeedbackService
}

// NewFeedbackHandler creates a feedback handler.
func NewFeedbackHandler(feedback driving.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// HandleSubmit stores a rating.
func (h *FeedbackHandler) HandleSubmit(c *fiber.Ctx) error {
	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationError("feedback", "invalid JSON request")
	}
	if err := validateRequest("feedback", &req); err != nil {
		return err
	}

	fb, err := h.feedback.Submit(c.UserContext(), req.MessageID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FeedbackResponse{Success: true, Feedback: dto.NewFeedback(fb)})
}

// HandleList returns ratings, filtered by the messageId query parameter.
func (h *FeedbackHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.feedback.List(c.UserContext(), c.Query("messageId"))
	if err != nil {
		return err
	}
	out := make([]dto.Feedback, len(items))
	for i := range items {
		out[i] = dto.NewFeedback(&items[i])
	}
	return c.JSON(fiber.Map{"feedback": out})
}

// contentType prefers the declared part type and falls back to the extension.
func contentType(declared, filename string) string {
	if declared != "" && !strings.HasPrefix(declared, fiber.MIMEOctetStream) {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	if declared != "" {
		return declared
	}
	return fiber.MIMEOctetStream
}
