package usecase

import "errors"

// ErrStore indicates an infrastructure/repository failure inside a use case.
// Client-facing domain errors pass through untouched; everything coming from
// the store is wrapped so controllers can map it to a 500.
var ErrStore = errors.New("chat use case: store error")
