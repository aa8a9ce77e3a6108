// Package domain defines the core business types for Recall: documents,
// chunks, retrieval results, conversation state, comparison outcomes and
// the application settings surface. It has no dependencies on adapters
// or infrastructure.
package domain
