// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Tokenizer: Encodes text to tokens for budgeted chunking
//   - TextExtractor: Reads text out of PDF files
//   - BatchService: Uploads request files and manages remote batch jobs
//   - JobStore: Local ledger of submitted jobs
//   - ReportWriter: Spreadsheet sink
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Direct chat completions. Without it, interactive summaries and Q&A are disabled.
//   - PromptStore: Editable prompt templates. Without it, embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
