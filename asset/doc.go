// Package asset fetches the hero model and decodes glTF 2.0 / GLB into
// quarkgl meshes.
//
// Models are centered on their bounds and scaled to a unit radius, so scene
// presets do not depend on the authoring units of the file.
package asset
