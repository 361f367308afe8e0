package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// MessageResponse sends {"message": ...} with the given status
func MessageResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"error":     message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, types.TypeNotFound)
}

// FromError maps err onto the error envelope. Unexpected errors do not leak their cause.
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		kind := "http"
		if fe.Code == fiber.StatusNotFound {
			kind = types.TypeNotFound
		}
		return ErrorResponse(c, fe.Message, fe.Code, kind)
	}
	ce := types.AsCustomError(err)
	return ErrorResponse(c, ce.Message, ce.Code, ce.Type)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// MessageResponseStruct defines the schema for message-only responses
type MessageResponseStruct struct {
	Message string `json:"message"`
}
