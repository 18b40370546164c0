// Package ir provides the value and record types shared by every bmicount package.
//
// This package contains type definitions, decoding and canonical encoding only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Scalar is a sealed interface; callers switch over its cases instead of
//     inspecting arbitrary Go values
//   - Records are field maps; only HeightCm and WeightKg are read, the rest is carried
//   - Errors carry a stable string code so the CLI can report them as data
//   - Canonical JSON is the only encoding used for batch digests
package ir
