// Package playlist turns album and track selections into queue operations
// on the daemon. It also implements the random album and random tracks
// actions, which draw from the daemon's tag index rather than the cached
// views so they cover songs added since the last cache build.
package playlist
