// Package events defines the search events emitted on the event bus.
//
// Available event types:
//   - AttemptEvent: one schedule was built and scored
//   - ImprovementEvent: a better schedule became the best known
//   - FinishedEvent: a search returned its result
package events
