// Package archive provides random-access reads of ZIP entries from an
// in-memory byte blob, and base-document discovery for scene archives.
package archive
