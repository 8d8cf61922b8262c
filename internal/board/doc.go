// Package board keeps the in-memory, ordered set of media boards. The set of
// names is fixed when the Store is created; only the media lists change.
package board
