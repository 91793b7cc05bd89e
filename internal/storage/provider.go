// Package storage defines the file-system abstraction used for the
// corpus directory and the local state directory.
package storage

import "github.com/starford/girogi/internal/models"

// Provider is the interface for directory-rooted file operations.
type Provider interface {
	// List returns every .md file directly under the root directory.
	List() ([]models.DocumentInfo, error)
	// Read returns the raw bytes of the file at name (relative to root).
	Read(name string) ([]byte, error)
	// Write atomically writes content to name (relative to root).
	Write(name string, content []byte) error
}
