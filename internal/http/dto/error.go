package dto

import "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"

type ErrorResponse struct {
	Error         string              `json:"error"`
	CorrelationID string              `json:"correlationId,omitempty"`
	Fields        []apperr.FieldError `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
