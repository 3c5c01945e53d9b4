// Package templates manages folder-structure templates and applies them
// against a live asset catalog.
//
// A template is an ordered list of folder definitions; each definition
// names a folder, an optional parent (by name, within the same template),
// and a set of filters that select assets for it. Filters on one
// definition combine with OR: an asset matching any filter moves into the
// folder.
//
// Application is best-effort and sequential. One bad folder definition is
// recorded as an error string and never aborts the batch; parent
// references resolve only against folders created earlier in the same
// application call.
package templates
