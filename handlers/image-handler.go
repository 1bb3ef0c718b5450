package handler

import (
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/krishkalaria12/imageworld/apperr"
	"github.com/krishkalaria12/imageworld/archive"
	"github.com/krishkalaria12/imageworld/middleware"
	"github.com/krishkalaria12/imageworld/models"
	"github.com/krishkalaria12/imageworld/repository"
	"github.com/krishkalaria12/imageworld/transform"
	"github.com/rs/zerolog"
)

const imageField = "image"

type ImageHandler struct {
	accounts    repository.AccountRepository
	logs        repository.ProcessingLogRepository
	transformer transform.Transformer
	archiver    archive.Archiver
	logger      zerolog.Logger
}

func NewImageHandler(
	accounts repository.AccountRepository,
	logs repository.ProcessingLogRepository,
	transformer transform.Transformer,
	archiver archive.Archiver,
	log zerolog.Logger,
) *ImageHandler {
	if archiver == nil {
		archiver = archive.Noop{}
	}
	return &ImageHandler{
		accounts:    accounts,
		logs:        logs,
		transformer: transformer,
		archiver:    archiver,
		logger:      log.With().Str("component", "image-handler").Logger(),
	}
}

// imageTool is what differs between the three image tools.
type imageTool struct {
	kind        transform.Tool
	failMessage string
	// prepare fills the tool specific parts of op and returns the download name.
	prepare func(c *fiber.Ctx, op *transform.Operation) (func(*transform.Result) string, error)
}

func (h *ImageHandler) Resize(c *fiber.Ctx) error {
	return h.process(c, imageTool{
		kind:        transform.ToolResize,
		failMessage: "Image processing failed",
		prepare: func(c *fiber.Ctx, op *transform.Operation) (func(*transform.Result) string, error) {
			width, height, err := parseDimensions(c)
			if err != nil {
				return nil, err
			}
			quality, err := parseQuality(c)
			if err != nil {
				return nil, err
			}
			op.Width, op.Height, op.Quality = width, height, quality
			return func(*transform.Result) string { return "resized-image.jpg" }, nil
		},
	})
}

func (h *ImageHandler) Convert(c *fiber.Ctx) error {
	return h.process(c, imageTool{
		kind:        transform.ToolConvert,
		failMessage: "Image conversion failed",
		prepare: func(c *fiber.Ctx, op *transform.Operation) (func(*transform.Result) string, error) {
			format, requested, err := parseFormat(c)
			if err != nil {
				return nil, err
			}
			quality, err := parseQuality(c)
			if err != nil {
				return nil, err
			}
			op.Format, op.Quality = format, quality
			return func(*transform.Result) string { return "converted-image." + requested }, nil
		},
	})
}

func (h *ImageHandler) Compress(c *fiber.Ctx) error {
	return h.process(c, imageTool{
		kind:        transform.ToolCompress,
		failMessage: "Image compression failed",
		prepare: func(c *fiber.Ctx, op *transform.Operation) (func(*transform.Result) string, error) {
			quality, err := parseQuality(c)
			if err != nil {
				return nil, err
			}
			op.Quality = quality
			return func(res *transform.Result) string { return "compressed-image." + res.Format.Extension() }, nil
		},
	})
}

func (h *ImageHandler) process(c *fiber.Ctx, tool imageTool) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile(imageField)
	if err != nil {
		return apperr.Validation("No image file provided")
	}

	blobFile, err := file.Open()
	if err != nil {
		return apperr.Internal("Error opening the file", err)
	}
	defer blobFile.Close()

	data, err := io.ReadAll(blobFile)
	if err != nil {
		return apperr.Internal("Error reading the file", err)
	}

	inputType := detectInputType(file.Header.Get(fiber.HeaderContentType), data)
	if !transform.IsAcceptedInput(inputType) {
		return apperr.Validation("Invalid file type")
	}

	ctx := c.UserContext()
	account, err := h.accounts.GetByID(ctx, identity.AccountID)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	if account == nil {
		return apperr.NotFound("User not found")
	}

	fileSizeMB := models.BytesToMB(file.Size)
	if limit := account.UploadLimitMB(); fileSizeMB > float64(limit) {
		return apperr.LimitExceeded(fmt.Sprintf("File size exceeds %dMB limit for %s plan", limit, account.PlanName()))
	}

	op := transform.Operation{Tool: tool.kind, InputType: inputType}
	filename, err := tool.prepare(c, &op)
	if err != nil {
		return err
	}

	startTime := time.Now()
	result, err := h.transformer.Transform(ctx, data, op)
	if err != nil {
		return apperr.Processing(tool.failMessage, err)
	}
	processingTime := time.Since(startTime).Milliseconds()

	outputType := result.ContentType()
	entry := &models.ProcessingLog{
		UserID:           &account.ID,
		ToolType:         models.ToolType(tool.kind),
		InputFormat:      inputType,
		OutputFormat:     &outputType,
		FileSizeMB:       models.RoundMB(fileSizeMB),
		ProcessingTimeMs: processingTime,
	}
	if err := h.logs.Create(ctx, entry); err != nil {
		return apperr.Internal(tool.failMessage, err)
	}

	name := filename(result)
	if url, err := h.archiver.Archive(ctx, account.ID, name, result.Data); err != nil {
		h.logger.Warn().Err(err).Str("account_id", account.ID).Msg("failed to archive result")
	} else if url != "" {
		h.logger.Debug().Str("url", url).Msg("result archived")
	}

	h.logger.Info().
		Str("account_id", account.ID).
		Str("tool", string(tool.kind)).
		Str("input", inputType).
		Str("output", outputType).
		Int64("ms", processingTime).
		Msg("image processed")

	c.Set(fiber.HeaderContentType, outputType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Status(fiber.StatusOK).Send(result.Data)
}

// detectInputType trusts the declared part type and sniffs the bytes only when
// the client sent none or a generic one.
func detectInputType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return strings.ToLower(mediaType)
	}

	detected := mimetype.Detect(data).String()
	if mediaType, _, err := mime.ParseMediaType(detected); err == nil {
		return mediaType
	}
	return detected
}
