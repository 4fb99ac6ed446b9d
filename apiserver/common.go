package apiserver

import (
	"context"

	"github.com/Isthali/processingdata/cnf"
	"github.com/Isthali/processingdata/standards"
	"github.com/gin-gonic/gin"
)

type service interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

// ------

type standardInfo struct {
	Ident           string    `json:"ident"`
	Axis            string    `json:"axis"`
	ReferencePoints []float64 `json:"referencePoints"`
}

// specimenPayload is one specimen curve as submitted by API clients.
// Values holds the primary axis samples aligned with Load.
type specimenPayload struct {
	ID       string               `json:"id"`
	Geometry standards.Geometry   `json:"geometry"`
	Axis     string               `json:"axis"`
	Values   []float64            `json:"values"`
	Load     []float64            `json:"load"`
	Aux      map[string][]float64 `json:"aux,omitempty"`
}

type evaluateRequest struct {
	Specimens []specimenPayload `json:"specimens"`
	Workers   int               `json:"workers,omitempty"`
}

// -----

func corsMiddleware(conf *cnf.Conf) gin.HandlerFunc {
	return func(ctx *gin.Context) {

		var allowedOrigin string
		currOrigin := ctx.Request.Header.Get("Origin")
		for _, origin := range conf.CorsAllowedOrigins {
			if currOrigin == origin || origin == "*" {
				allowedOrigin = origin
				break
			}
		}
		if allowedOrigin != "" {
			ctx.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			ctx.Writer.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With",
			)
			ctx.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if ctx.Request.Method == "OPTIONS" {
			ctx.AbortWithStatus(204)
			return
		}
		ctx.Next()
	}
}
