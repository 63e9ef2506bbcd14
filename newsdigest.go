// Package newsdigest turns news portal pages into structured article rows.
// It discovers article URLs from listing surfaces, fetches each article,
// extracts its body through an ordered cascade of heuristics, and can
// produce an extractive summary ranked by sentence centrality.
//
// This package contains domain types, interfaces and dependency-free
// algorithms following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, gemini/, sqlite/).
package newsdigest
