// Package listsync pushes the rating list to an external target after a
// rating change, typically via rsync or a small upload script.
//
// The hook is strictly best-effort: callers fire it after a successful local
// persist and log failures without failing the rating operation. When sync is
// disabled a noop implementation is returned, so call sites never branch.
package listsync
