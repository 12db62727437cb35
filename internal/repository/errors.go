// Package repository defines error types that are reused across
// multiple repositories. These sentinel values let the engine layer
// distinguish anticipated business conditions from real store
// failures without parsing driver error strings at every call site.
package repository

import "errors"

// ErrDuplicateLocator is returned when inserting a PNR whose record
// locator already exists. Callers generate a fresh locator and retry.
var ErrDuplicateLocator = errors.New("record locator already exists")

// ErrSeatsUnavailable is returned when a conditional inventory update
// matches no row: either the fare class does not exist or selling the
// requested count would push sold_seats past total_seats. Callers
// re-read live counts to produce a precise user message.
var ErrSeatsUnavailable = errors.New("seats unavailable")
