// Package unlock coordinates unlock sessions. A session resolves the
// processes holding a set of targets, launches an elevated helper to
// release them and follows the helper's result stream, reporting the state
// of each target as it changes.
//
// All target mutations and observer callbacks are funneled through a
// Dispatcher, which lets a user interface apply them on its own thread.
package unlock
