package domain

import "errors"

// ErrSnapshotNotFound is returned when a storage key has no snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrBusy is returned when a send arrives while a previous turn is
// still thinking or streaming.
var ErrBusy = errors.New("conversation busy")

// ErrUnknownNode is returned when an action references a script node
// that is not in the graph. This is an authoring defect in static
// script data; callers can treat it as a no-op.
var ErrUnknownNode = errors.New("unknown script node")

// ErrUnknownDirective is returned when decoding a directive with an
// unrecognized discriminant.
var ErrUnknownDirective = errors.New("unknown directive type")

// ErrStep is returned when a guided-workflow operation is invoked in a
// step that does not permit it.
var ErrStep = errors.New("operation not valid in current step")
