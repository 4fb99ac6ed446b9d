// Copyright 2026 Isthali S.A.C.
// Copyright 2026 LEDI - Laboratorio de Estructuras
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apiserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Isthali/processingdata/archive"
	"github.com/Isthali/processingdata/curve"
	"github.com/Isthali/processingdata/report"
	"github.com/Isthali/processingdata/standards"
	"github.com/czcorpus/cnc-gokit/unireq"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

const (
	runDateFormat    = "2006-01-02"
	dfltRunListLimit = 50
)

func (api *apiServer) handleStandards(ctx *gin.Context) {
	known := standards.Known()
	ans := make([]standardInfo, 0, len(known))
	for _, ident := range known {
		calc, err := standards.GetCalculator(ident)
		if err != nil {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return
		}
		ans = append(ans, standardInfo{
			Ident:           ident,
			Axis:            calc.Axis(),
			ReferencePoints: calc.ReferencePoints(),
		})
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func (api *apiServer) handleEvaluate(ctx *gin.Context) {
	var req evaluateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest,
		)
		return
	}
	if len(req.Specimens) == 0 {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("no specimens in request"), http.StatusBadRequest,
		)
		return
	}
	model, err := report.NewModel(ctx.Param("standard"), report.Options{Workers: req.Workers})
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusUnprocessableEntity)
		return
	}
	specimens := make([]report.SpecimenData, len(req.Specimens))
	for i, payload := range req.Specimens {
		axis := payload.Axis
		if axis == "" {
			axis = model.Calculator().Axis()
		}
		crv, err := curve.New(axis, payload.Values, payload.Load, payload.Aux)
		if err != nil {
			uniresp.RespondWithErrorJSON(
				ctx, fmt.Errorf("specimen %s: %w", payload.ID, err), http.StatusBadRequest,
			)
			return
		}
		specimens[i] = report.SpecimenData{
			Specimen: standards.Specimen{ID: payload.ID, Geometry: payload.Geometry},
			Curve:    crv,
		}
	}
	agg, err := model.Run(ctx.Request.Context(), specimens)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if ctx.Query("archive") == "1" {
		if err := api.archive.AddRun(agg); err != nil {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return
		}
	}
	uniresp.WriteJSONResponse(ctx.Writer, agg)
}

func (api *apiServer) handleRuns(ctx *gin.Context) {
	filter := archive.ListFilter{}
	if v := ctx.Query("standard"); v != "" {
		filter = filter.SetStandard(v)
	}
	if v := ctx.Query("from"); v != "" {
		t, err := time.Parse(runDateFormat, v)
		if err != nil {
			uniresp.RespondWithErrorJSON(
				ctx, fmt.Errorf("invalid `from` date: %w", err), http.StatusBadRequest,
			)
			return
		}
		filter = filter.SetFrom(t)
	}
	if v := ctx.Query("to"); v != "" {
		t, err := time.Parse(runDateFormat, v)
		if err != nil {
			uniresp.RespondWithErrorJSON(
				ctx, fmt.Errorf("invalid `to` date: %w", err), http.StatusBadRequest,
			)
			return
		}
		filter = filter.SetTo(t)
	}
	limit, ok := unireq.GetURLIntArgOrFail(ctx, "limit", dfltRunListLimit)
	if !ok {
		return
	}
	filter = filter.SetLimit(limit)

	runs, err := api.archive.ListRuns(filter)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, runs)
}

func (api *apiServer) handleRunInfo(ctx *gin.Context) {
	rec, err := api.archive.GetRun(ctx.Param("runId"))
	if errors.Is(err, archive.ErrRunNotFound) {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
		return

	} else if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, rec)
}
