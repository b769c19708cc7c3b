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
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// Problem is an API error response.
type Problem struct {
	Status int    `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`

	// Load error details, set when the dataset could not be loaded.
	Reason string `json:"reason,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column string `json:"column,omitempty"`
}

// Render implements render.Renderer.
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

func newProblem(status int, code, title, detail string) *Problem {
	return &Problem{Status: status, Code: code, Title: title, Detail: detail}
}

func badRequest(detail string) *Problem {
	return newProblem(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request", detail)
}

// problemFor maps an error to a response. Datasets whose contents are
// malformed are 422; datasets that cannot be reached are 503.
func problemFor(err error) *Problem {
	var lerr *dataset.LoadError
	if errors.As(err, &lerr) {
		p := newProblem(http.StatusServiceUnavailable, "DATASET_UNAVAILABLE",
			"Dataset could not be loaded", lerr.Error())
		switch lerr.Reason {
		case dataset.ReasonMissingColumn, dataset.ReasonBadDate, dataset.ReasonBadNumber:
			p.Status = http.StatusUnprocessableEntity
			p.Code = "DATASET_INVALID"
		}
		p.Reason = lerr.Reason.String()
		p.Line = lerr.Line
		p.Column = lerr.Column
		return p
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newProblem(http.StatusServiceUnavailable, "TIMEOUT", "Request cancelled", err.Error())
	}
	return newProblem(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
}
