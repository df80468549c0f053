// Package loader reads keybind configuration and preset files.
//
// Files are decoded straight into typed structs. TOML is decoded with
// go-toml and YAML with yaml.v3. Lua scripts are run with gopher-lua and
// the table they return is decoded like a YAML document. All formats go
// through the FileSystem abstraction so tests can run against an in-memory
// tree. Environment overrides are
// collected separately by EnvLoader.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Decoder decodes one file format into a Go value.
type Decoder interface {
	// Decode parses data from source into v.
	Decode(source string, data []byte, v any) error
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
	// ReadDir lists the entries of the directory at path.
	ReadDir(path string) ([]fs.DirEntry, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the entries of the directory at path.
func (OSFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// DecoderFor returns the decoder for path's extension, or nil if the
// extension is not a supported format.
func DecoderFor(path string) Decoder {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOMLDecoder{}
	case ".yaml", ".yml":
		return YAMLDecoder{}
	case ".lua":
		return LuaDecoder{}
	default:
		return nil
	}
}
