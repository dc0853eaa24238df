// Package urladdr implements the canonical URL type consumed by the scene
// importer, tile sources, and the platform request interface.
//
// It supports RFC-3986 style relative resolution and a virtual zip://
// scheme used to address entries inside an in-memory archive as if they
// were ordinary resources: for an archive fetched from A, the entry at
// path "img/x.png" is addressed as zip://<percent-encoded A>/img/x.png.
package urladdr
