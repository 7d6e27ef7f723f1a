// Package formmodel provides a form.Model that keeps the committed baseline
// as a JSON document. Field handles are cells layered over the document:
// reads go through gjson, commits and value snapshots are written back with
// sjson, so nested values, arrays and dotted paths need no reflection.
//
// Field handles are created lazily and cached per path, so repeated lookups
// of one path always return the same cell. Values overlays the edited cells
// on the baseline, parents before children. Store commits them and Reset
// reads every cell back. Error codes are stored per path, apart from cells.
package formmodel
