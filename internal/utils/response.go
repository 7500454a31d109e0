package utils

import (
	"errors"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, fiber.Map{"success": true, "data": data})
}

// Created sends a successful JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, fiber.Map{"success": true, "data": data})
}

// Fail sends a JSON error response.
func Fail(c *fiber.Ctx, status int, message string) error {
	return Respond(c, status, fiber.Map{"success": false, "error": message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, message)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusConflict, message)
}

func InternalError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, message)
}

// statusByCode maps domain error codes that are not plain 400s.
var statusByCode = map[string]int{
	"USER_NOT_FOUND":          fiber.StatusNotFound,
	"INVALID_CREDENTIALS":     fiber.StatusUnauthorized,
	"EMAIL_TAKEN":             fiber.StatusConflict,
	"DUPLICATE_TRADE":         fiber.StatusConflict,
	"REFERRAL_CODE_EXHAUSTED": fiber.StatusServiceUnavailable,
	"PAYOUT_FAILED":           fiber.StatusBadGateway,
}

// FromError renders err. Domain errors keep their message, anything else
// is logged and hidden behind a 500.
func FromError(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = fiber.StatusBadRequest
		}
		if status >= fiber.StatusInternalServerError {
			logger.L.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		}
		return Fail(c, status, domainErr.Message)
	}

	logger.L.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return InternalError(c, "internal server error")
}
