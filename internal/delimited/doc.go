// Package delimited reads separator-delimited export files the way legacy
// discovery-layer dumps are written: a configurable separator, an enclosure
// character that is only special at the start of a field, doubled enclosures
// for literal quotes, and an escape character that both protects the next
// byte and remains part of the value. Quoted fields may span physical lines.
//
// encoding/csv cannot express this dialect (it has no escape character and
// strips enclosures per RFC 4180), so the reader is implemented directly on
// a buffered byte stream.
package delimited
