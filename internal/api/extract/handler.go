package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/eumalin/ai-knowledge-hub/config"
	"github.com/eumalin/ai-knowledge-hub/internal/core/document"
	"github.com/eumalin/ai-knowledge-hub/internal/middleware"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror"
	"github.com/eumalin/ai-knowledge-hub/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const fetchTimeout = 20 * time.Second

var errNoText = errors.New("no text extracted")

type extractRequest struct {
	Source string `json:"source"`
	Title  string `json:"title"`
}

// HandleExtract turns an uploaded PDF or an s3:// object into a Document
// ready to be sent to /ask. Nothing is stored server-side.
func HandleExtract(c fiber.Ctx) error {
	trackingID := c.Get(middleware.RequestIDHeader)

	var title, text string

	if fh, err := c.FormFile("file"); err == nil && fh != nil {
		if fh.Size == 0 {
			return apperror.BadRequest(config.ModuleExtract, c, status.MissingParams, "empty file")
		}
		title = fh.Filename

		file, err := fh.Open()
		if err != nil {
			return apperror.BadRequest(config.ModuleExtract, c, status.MissingParams, "cannot open file")
		}
		defer file.Close()

		// The pdf library needs a path, so spool the upload to a temp file.
		tmp, err := os.CreateTemp("", "extract-*.pdf")
		if err != nil {
			return apperror.InternalError(config.ModuleExtract, c, status.New(status.ExtractInternal, err))
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			return apperror.InternalError(config.ModuleExtract, c, status.New(status.ExtractInternal, err))
		}
		if err := tmp.Close(); err != nil {
			return apperror.InternalError(config.ModuleExtract, c, status.New(status.ExtractInternal, err))
		}

		text, err = document.ExtractPDF(tmp.Name())
		if err != nil {
			return apperror.InternalError(config.ModuleExtract, c, status.New(status.ExtractParseFailed, err))
		}
	} else {
		var req extractRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return apperror.BadRequest(config.ModuleExtract, c, status.InvalidRequestBody, err.Error())
		}
		req.Source = strings.TrimSpace(req.Source)
		if req.Source == "" {
			return apperror.BadRequest(config.ModuleExtract, c, status.MissingParams, "file upload or source is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var err error
		text, err = document.LoadS3Text(ctx, req.Source)
		if err != nil {
			return apperror.InternalError(config.ModuleExtract, c, status.New(status.ExtractFetchFailed, err))
		}
		title = req.Title
		if title == "" {
			title = req.Source
		}
	}

	if strings.TrimSpace(text) == "" {
		return apperror.InternalError(config.ModuleExtract, c, status.New(status.ExtractEmptyText, errNoText))
	}

	doc := document.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	return apperror.Success(config.ModuleExtract, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "extract ok",
		TrackingID: trackingID,
		Data:       doc,
	})
}
