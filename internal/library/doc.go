// Package library persists finished episodes. Metadata lives in a SQLite
// database under the library directory; audio tracks and transcripts are
// written as plain files next to it so they stay playable and readable
// without the tool.
package library
