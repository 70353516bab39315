package api

import (
	"errors"

	"onchainiq/internal/domain/repository"
	"onchainiq/internal/schema"
	"onchainiq/internal/usecase"
	xhttp "onchainiq/pkg/http"
)

// appError maps usecase and domain errors to HTTP errors.
func appError(err error) *xhttp.AppError {
	var (
		appErr *xhttp.AppError
		sve    *schema.SchemaValidationError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &sve):
		return xhttp.BadGatewayError("ERR_SCHEMA_VALIDATION", "model response did not match the expected schema").
			WithParam("schema", sve.Schema).
			WithParam("violations", sve.Violations).
			WithError(err)
	case errors.Is(err, usecase.ErrProviderTimeout):
		return xhttp.GatewayTimeoutError("ERR_PROVIDER_TIMEOUT", "model did not answer in time").WithError(err)
	case errors.Is(err, usecase.ErrProviderTransport):
		return xhttp.BadGatewayError("ERR_PROVIDER_TRANSPORT", "model provider unavailable").WithError(err)
	case errors.Is(err, usecase.ErrAborted):
		return xhttp.ClientClosedError("request cancelled").WithError(err)
	case errors.Is(err, usecase.ErrNoMessages):
		return xhttp.BadRequestError(err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return xhttp.NotFoundError("not found").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
