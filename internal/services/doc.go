// Package services holds the shared error taxonomy, retry policy, and
// context plumbing used by every remote collaborator client (content reader,
// chat model, speech synthesis).
package services
