// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the profiling service over HTTP.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the HTTP handlers for svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// RunRequest is the POST /v1/profile/run payload.
type RunRequest struct {
	// Records is the normalized record set to profile.
	Records []Record `json:"records" binding:"required"`

	// Config optionally overrides the service's default pipeline
	// configuration for this request only.
	Config *Config `json:"config,omitempty"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleRun executes one profiling run.
//
// # Description
//
// Accepts a record set plus optional configuration overrides and
// returns the three artifacts (metadata, explosions-by-identifier,
// combinations) in one response. Validation problems map to 400,
// everything else to 500.
func (h *Handlers) HandleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.svc.Profile(c.Request.Context(), req.Records, req.Config)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidInput) ||
			errors.Is(err, ErrNoRecords) ||
			errors.Is(err, ErrMissingField) ||
			errors.Is(err, ErrBadTimestamp) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
