// Package store declares the persistence contract for assessments, the
// sentinel errors implementations return, and RunInTransaction, which
// services use to group writes.
package store
