// Package connectors provides the document sources the indexer reads from.
// The corpus is a local directory tree, so the only connector is filesystem.
package connectors
