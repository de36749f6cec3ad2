// Package reader extracts readable article text from web pages through a
// Jina-style reader endpoint.
package reader
