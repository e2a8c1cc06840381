/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Error kinds reported to clients. Every domain error is recoverable
// and only ever affects the session that caused it.
const (
	kindValidation    = "validation"
	kindState         = "state"
	kindAuthorization = "authorization"
	kindNotFound      = "not_found"
	kindCapacity      = "capacity"
	kindInternal      = "internal"
)

type GameError struct {
	Kind    string
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &GameError{Kind: kindValidation, Message: fmt.Sprintf(format, args...)}
}

func stateErrorf(format string, args ...any) error {
	return &GameError{Kind: kindState, Message: fmt.Sprintf(format, args...)}
}

func authorizationErrorf(format string, args ...any) error {
	return &GameError{Kind: kindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func notFoundErrorf(format string, args ...any) error {
	return &GameError{Kind: kindNotFound, Message: fmt.Sprintf(format, args...)}
}

func capacityErrorf(format string, args ...any) error {
	return &GameError{Kind: kindCapacity, Message: fmt.Sprintf(format, args...)}
}

// errorKind maps any error onto a reportable kind, treating
// non-domain errors as internal.
func errorKind(err error) string {
	var gameErr *GameError
	if errors.As(err, &gameErr) {
		return gameErr.Kind
	}
	return kindInternal
}

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
