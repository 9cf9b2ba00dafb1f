// Package events provides types and interfaces for an event-driven architecture.
//
// The assessment service emits AssessmentEvent values when drafts are saved
// and submissions complete; handlers such as the completion metrics counter
// and the audit log subscribe through an EventEmitter without the service
// knowing about them.
package events
