// Package model defines shared data types used across newsdesk.
//
// Conventions:
//   - Articles are identified by URL; ArticleID derives a stable uuid.UUID
//     (name-based, SHA-1) from it for keys that must not embed raw URLs.
//   - Confidence values are floats in [0, 1].
package model
