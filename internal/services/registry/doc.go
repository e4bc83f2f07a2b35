// Package registry is the authoritative table of live chat sessions.
//
// It keeps two views, username → session and connection → username, and only
// ever changes them together under one lock. Callers never touch the maps:
// they go through Add, Remove and Snapshot. Join and leave events are handed
// to subscribed EventSinks after the lock is released, together with the
// audience (a snapshot taken under the same lock) that should hear about them.
package registry
