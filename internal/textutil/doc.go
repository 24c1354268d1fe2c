// Package textutil provides text processing helpers for imported
// annotations: collapsing legacy export escapes and producing single-line
// excerpts for logs and notifications.
package textutil
