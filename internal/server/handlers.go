//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"github.com/pgEdge/pgedge-salesdash/internal/analytics"
	"github.com/pgEdge/pgedge-salesdash/pkg/version"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DashboardRequest selects regions for a dashboard. A missing or null
// Regions selects every region; an empty list selects none.
type DashboardRequest struct {
	Regions []string `json:"regions" validate:"max=256,dive,required,max=256"`
}

type regionsResponse struct {
	Regions []string `json:"regions"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{Status: "ok", Version: version.Short()})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.svc.Regions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, regionsResponse{Regions: regions})
}

// handleDashboardQuery reads the selection from repeated region parameters.
// Without any region parameter every region is selected; "region=" alone
// selects none.
func (s *Server) handleDashboardQuery(w http.ResponseWriter, r *http.Request) {
	s.dashboard(w, r, regionsFromQuery(r))
}

func (s *Server) handleDashboardBody(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, badRequest(fmt.Sprintf("invalid JSON body: %v", err)))
		return
	}
	if err := validate.Struct(req); err != nil {
		render.Render(w, r, badRequest(err.Error()))
		return
	}

	var allowed analytics.RegionSet
	if req.Regions != nil {
		allowed = analytics.NewRegionSet(req.Regions...)
	}
	s.dashboard(w, r, allowed)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request, allowed analytics.RegionSet) {
	res, err := s.svc.Dashboard(r.Context(), allowed)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err)
	hlog.FromRequest(r).Error().Err(err).Int("status", p.Status).Msg("Request failed")
	render.Render(w, r, p)
}

func regionsFromQuery(r *http.Request) analytics.RegionSet {
	values, ok := r.URL.Query()["region"]
	if !ok {
		return nil
	}
	allowed := analytics.NewRegionSet()
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			allowed[v] = struct{}{}
		}
	}
	return allowed
}
