// Package model defines the data types shared across scene loading:
// SceneOptions (the load request), SceneNode (one import-graph document),
// SceneError (load-time error records), and Scene itself — the assembled,
// ready-to-render state owning styles, tile sources, the tile manager, and
// the marker store. Building a Scene from SceneOptions is scene/lifecycle
// and scene/importer's job; this package only defines what they produce.
package model
