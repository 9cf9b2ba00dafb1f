// Package service implements the assessment use cases on top of the scoring
// engine and the assessment store.
//
// AssessmentService is the only entry point used by the HTTP layer:
//
//   - Catalogue and Questionnaire describe the registered assessment types.
//   - Preview scores answers without persisting them.
//   - SaveDraft and Submit persist answers; Submit applies the unlock rule
//     and the minimum completion gate, scores, and stores the result in the
//     same transaction that closes any open draft.
//   - Get, List and Availability read a user's own history.
//
// Errors returned by the service wrap the sentinels in errors.go so the API
// layer can map them to status codes with errors.Is.
package service
