// Package wire defines the JSON structures and header names exchanged with
// the Neon HTTP SQL endpoint. The shapes here are the protocol contract;
// value adaptation between Go types and the Postgres text forms carried in
// these structures lives in the pgcodec package.
package wire
