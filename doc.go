// Package blessbuf provides an editable binary buffer: a logical byte
// sequence built from segments over in-memory or memory-mapped file
// data, a full undo/redo log, and a save engine that can overwrite the
// buffer's own backing file in place even when segments still read from
// the region about to be written.
//
// A Buffer starts empty (New) or wraps an existing file (NewFromFile).
// Append, Insert, and Delete mutate it and push an undoable action;
// BeginMulti/EndMulti group a run of edits into one undo step. Save
// writes the current content to an open file, reusing in-place bytes
// where it safely can; SaveAtomic wraps that for the common
// save-to-a-path case.
//
// Find and cross-buffer Copy are intentionally unimplemented — the
// reference library this package is modeled on never implemented them
// either.
package blessbuf
