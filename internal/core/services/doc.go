// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - Indexer: corpus walk, extraction, segmentation and storage
//   - Retriever: category-scoped similarity queries
//   - Assistant: grounded answers from retrieved excerpts
//   - StatsService: chunk counts per collection and category
//   - SettingsService: configuration with environment fallbacks
//
// Services are pure Go with no CGO.
package services
