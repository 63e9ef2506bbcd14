// Package gemini implements sentence embedding and token counting with the
// Google Gemini API.
package gemini

// EmbeddingModel is the multilingual embedding model used by default.
const EmbeddingModel = "gemini-embedding-001"
