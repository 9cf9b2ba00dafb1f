// Package domain contains the core business entities, value objects, and
// domain logic of the application. The scoring engine lives in the scoring
// subpackage; this package holds the persisted assessment record that wraps
// an engine result for one user.
package domain
