// Package driven defines the outbound ports of the Recall core: the
// interfaces the application expects its infrastructure adapters to
// implement (embedding, vector index, language model, prompt storage,
// document parsing). Adapters live under internal/adapters/driven.
package driven
