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
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the profile endpoints with the router.
//
// Endpoints:
//
//	POST /v1/profile/run    - Run a profiling pipeline over records
//	GET  /v1/profile/health - Liveness probe
//	GET  /metrics           - Prometheus metrics
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	v1 := r.Group("/v1/profile")
	{
		v1.POST("/run", h.HandleRun)
		v1.GET("/health", h.HandleHealth)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
