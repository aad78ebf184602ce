// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoHandler = errors.New("no handler to serve")

	// ErrListen is returned when the listen address cannot be bound.
	ErrListen = errors.New("error listening")
)
