// Package catalog defines the asset catalog: the host project's assets and
// folders, and the mutation operations the engine requests against them.
//
// The catalog is an external collaborator. The engine never mutates assets
// or folders directly; it asks the catalog to create folders and move
// assets, and treats every mutation as a request that may fail. The
// in-memory implementation in this package backs tests and the daemon's
// demo mode, and mirrors the host bridge's behavior including duplicate
// folder rejection.
package catalog
