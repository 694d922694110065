// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: Document and chunk persistence with an atomic create
//   - EmbeddingService: Generates vector embeddings for chunks and questions
//   - LLMService: Generates answers from a system and user prompt
//   - TextExtractor: Turns uploaded files into plain text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - FeedbackStore: Answer ratings. Without it, feedback submission is disabled.
//   - PromptStore: User overrides for the answer system prompt
//   - AIConfigValidator: Live provider checks for the settings commands
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
