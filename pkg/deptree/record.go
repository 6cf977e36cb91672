package deptree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Root is the identifier of the synthetic node representing the environment
// itself. It carries no license information.
const Root = "ROOT"

// ErrInvalidDocument is returned by [Parse] when the input is not a JSON
// array of records.
var ErrInvalidDocument = errors.New("dependency listing must be a JSON array")

// PackageID identifies a graph node: "name==version", or [Root].
type PackageID string

// NewPackageID joins a package name and version into a PackageID.
func NewPackageID(name, version string) PackageID {
	return PackageID(name + "==" + version)
}

// Split returns the name and version encoded in the ID. The root, or an ID
// without a version separator, yields the whole ID as name and an empty
// version.
func (id PackageID) Split() (name, version string) {
	name, version, _ = strings.Cut(string(id), "==")
	return name, version
}

// IsRoot reports whether the ID is the environment root.
func (id PackageID) IsRoot() bool { return id == Root }

func (id PackageID) String() string { return string(id) }

// Record is one installed package and its direct dependencies, as delivered
// by pipdeptree. Records are only used to build a graph and are not retained.
type Record struct {
	Name         string
	Version      string
	Dependencies []Record

	// Declared is the length of the dependency list as listed, including
	// entries dropped by the skip rule. Zero for hand-built records.
	Declared int
}

// HasDependencies reports whether the record listed any dependency, valid or
// not.
func (r Record) HasDependencies() bool {
	return len(r.Dependencies) > 0 || r.Declared > 0
}

// ID returns the PackageID of the record.
func (r Record) ID() PackageID { return NewPackageID(r.Name, r.Version) }

// rawRecord accepts both pipdeptree shapes: the flat --json format, where the
// identity sits under "package", and the --json-tree / dependency-entry shape
// with the identity inline.
type rawRecord struct {
	Package          *rawPackage       `json:"package"`
	PackageName      string            `json:"package_name"`
	InstalledVersion string            `json:"installed_version"`
	Dependencies     []json.RawMessage `json:"dependencies"`
}

type rawPackage struct {
	PackageName      string `json:"package_name"`
	InstalledVersion string `json:"installed_version"`
}

// Parse decodes a pipdeptree JSON listing (either `pipdeptree --json` or
// `pipdeptree --json-tree`) into records.
//
// The document itself must be a JSON array; anything else is rejected with
// an error wrapping [ErrInvalidDocument]. Inside the array a single skip rule
// applies at every nesting level: an entry that is not an object, or that
// lacks a non-empty package name or installed version, is dropped together
// with its dependencies. Skipped entries are never reported.
func Parse(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return parseEntries(entries), nil
}

// ParseFile opens path and parses it with [Parse].
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func parseEntries(entries []json.RawMessage) []Record {
	out := make([]Record, 0, len(entries))
	for _, raw := range entries {
		if rec, ok := parseEntry(raw); ok {
			out = append(out, rec)
		}
	}
	return out
}

func parseEntry(raw json.RawMessage) (Record, bool) {
	var r rawRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, false
	}
	name, version := r.PackageName, r.InstalledVersion
	if r.Package != nil {
		name, version = r.Package.PackageName, r.Package.InstalledVersion
	}
	if name == "" || version == "" {
		return Record{}, false
	}
	return Record{
		Name:         name,
		Version:      version,
		Dependencies: parseEntries(r.Dependencies),
		Declared:     len(r.Dependencies),
	}, true
}
