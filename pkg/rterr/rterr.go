// Package rterr defines the renderer's fatal error kinds (spec §7):
// config, asset, reference-resolution, and build errors. Each wraps an
// underlying cause with fmt.Errorf("%w", ...) in the style of the
// teacher's pkg/loaders error returns, but is additionally typed so a
// caller can errors.As to the category instead of matching strings.
package rterr

import "fmt"

// ConfigError reports a malformed config tree: missing required field,
// unknown type name, or an out-of-range numeric value (spec §7, kind 1).
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %v", e.Field, e.Err)
}
func (e *ConfigError) Unwrap() error { return e.Err }

func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// AssetError reports a failure loading a declared asset: file not found,
// unparseable mesh, unsupported image format (spec §7, kind 2).
type AssetError struct {
	Name string
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset error: %q (%s): %v", e.Name, e.Path, e.Err)
}
func (e *AssetError) Unwrap() error { return e.Err }

func NewAssetError(name, path string, err error) *AssetError {
	return &AssetError{Name: name, Path: path, Err: err}
}

// ReferenceError reports a scene node referencing a named asset that was
// never declared, or declared in the wrong category (spec §7, kind 3).
type ReferenceError struct {
	Node     string
	Category string
	Name     string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference error: node %q references undeclared %s %q", e.Node, e.Category, e.Name)
}

func NewReferenceError(node, category, name string) *ReferenceError {
	return &ReferenceError{Node: node, Category: category, Name: name}
}

// BuildError reports an accelerator or scene that cannot be built: empty
// scene, invalid primitive index, no camera (spec §7, kind 4).
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string { return fmt.Sprintf("build error: %s", e.Reason) }

func NewBuildError(reason string) *BuildError { return &BuildError{Reason: reason} }
