// Package handlers holds the HTTP handlers of the REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"processflow/application/commands/bus"
	querybus "processflow/application/queries/bus"
	pkgerrors "processflow/pkg/errors"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// base carries what every handler needs to run commands and queries
type base struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// send runs cmd and writes its result with status
func (b base) send(w http.ResponseWriter, r *http.Request, cmd bus.Command, status int) {
	result, err := b.commandBus.Send(r.Context(), cmd)
	if err != nil {
		b.errors.Handle(w, r, err)
		return
	}
	b.respondJSON(w, status, result)
}

// ask runs q and writes its result
func (b base) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	result, err := b.queryBus.Ask(r.Context(), q)
	if err != nil {
		b.errors.Handle(w, r, err)
		return
	}
	b.respondJSON(w, http.StatusOK, result)
}

func (b base) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return pkgerrors.NewValidationError("invalid request body").
		WithCode("INVALID_JSON").
		WithCause(err)
}
