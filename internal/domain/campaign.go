package domain

// Campaign is a named partition of content, configured statically.
type Campaign struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	DMName string `json:"dmName" yaml:"dm_name"`
	Active bool   `json:"active" yaml:"active"`
}