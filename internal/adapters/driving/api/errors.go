package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// ErrorHandler renders every failed request as a dto.ErrorResponse.
// Fiber errors such as unknown routes keep their own status code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{
			Error:      httpTitle(fe.Code),
			Kind:       string(kindForStatus(fe.Code)),
			Message:    fe.Message,
			StatusCode: fe.Code,
		})
	}

	resp := dto.NewErrorResponse(err)
	if resp.StatusCode >= fiber.StatusInternalServerError {
		logger.Error("%s %s failed: %v", c.Method(), c.Path(), err)
	} else {
		logger.Debug("%s %s rejected: %v", c.Method(), c.Path(), err)
	}
	return c.Status(resp.StatusCode).JSON(resp)
}

var validate = validator.New()

// validateRequest checks v against its validate tags and reports every
// failing field in a single validation error.
func validateRequest(op string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationError(op, "%v", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on '%s' tag", e.Field(), e.Tag()))
	}
	sort.Strings(fields)
	return domain.ValidationError(op, "%s", strings.Join(fields, "; "))
}

func kindForStatus(code int) domain.ErrorKind {
	switch {
	case code == fiber.StatusNotFound:
		return domain.KindNotFound
	case code < fiber.StatusInternalServerError:
		return domain.KindValidation
	default:
		return domain.KindPersistence
	}
}

func httpTitle(code int) string {
	if code == fiber.StatusRequestEntityTooLarge {
		return "File Too Large"
	}
	return kindForStatus(code).Title()
}
