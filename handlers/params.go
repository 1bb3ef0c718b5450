package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/krishkalaria12/imageworld/apperr"
	"github.com/krishkalaria12/imageworld/transform"
)

// parseIntParam parses an optional integer form field. An empty value yields 0.
func parseIntParam(param, paramName string, min, max int) (int, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(param)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("invalid %s: must be an integer", paramName))
	}

	if value < min || value > max {
		return 0, apperr.Validation(fmt.Sprintf("%s must be between %d and %d", paramName, min, max))
	}

	return value, nil
}

func parseQuality(c *fiber.Ctx) (int, error) {
	return parseIntParam(c.FormValue("quality"), "quality", 1, 100)
}

func parseDimensions(c *fiber.Ctx) (int, int, error) {
	width, err := parseIntParam(c.FormValue("width"), "width", 1, transform.MaxDimension)
	if err != nil {
		return 0, 0, err
	}

	height, err := parseIntParam(c.FormValue("height"), "height", 1, transform.MaxDimension)
	if err != nil {
		return 0, 0, err
	}

	return width, height, nil
}

// parseFormat returns the target format and the name the client asked for, which
// becomes the download extension. A missing format means jpeg.
func parseFormat(c *fiber.Ctx) (transform.Format, string, error) {
	raw := strings.ToLower(strings.TrimSpace(c.FormValue("format")))
	if raw == "" {
		raw = string(transform.FormatJPEG)
	}

	format, err := transform.ParseFormat(raw)
	if err != nil {
		return "", "", apperr.Validation("Unsupported format")
	}
	return format, raw, nil
}
