// Package quarkgl is a small, predictable software 3D pipeline.
//
// It renders triangle meshes and point clouds into a caller-provided Target.
// It is not a game engine and does not provide a GPU abstraction.
//
// Pipeline (fixed):
//
//	Scene → Transform → Projection → Clipping → Rasterization → Frame output.
//
// Meshes are drawn first (flat, vertex-colored or wireframe, optionally
// alpha-blended), point clouds second. The renderer avoids allocations in the
// render hot path once its buffers are sized for a target.
//
// All math is float32. Matrices are column-major (OpenGL layout) and euler
// rotations use XYZ order.
package quarkgl
