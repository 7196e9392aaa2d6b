package model

import "strings"

// TypeKey identifies a declared type across packages: "<package path>.<Name>".
// Types declared at the root of a search path have an empty package path and
// their key is the bare name.
type TypeKey string

// NewTypeKey builds the key of a type named name declared in pkg.
func NewTypeKey(pkg, name string) TypeKey {
	if pkg == "" {
		return TypeKey(name)
	}

	return TypeKey(pkg + "." + name)
}

// Name returns the unqualified type name.
func (k TypeKey) Name() string {
	s := string(k)
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}

	return s
}

// Package returns the package path part of the key.
func (k TypeKey) Package() string {
	s := string(k)
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[:i]
	}

	return ""
}

// TypeDecl is a struct type declared at the top level of a module.
type TypeDecl struct {
	Name    string
	Package string    // package path the type belongs to
	Module  string    // qualified name of the module declaring it
	File    Path      // absolute path of the declaring file
	Line    int       // line of the type spec
	Embeds  []TypeKey // embedded fields, in declaration order
	// Scope replaces Package in the key when another directory already holds
	// a package of the same name.
	Scope string
}

// Key returns the registry key of the type.
func (t TypeDecl) Key() TypeKey {
	if t.Scope != "" {
		return NewTypeKey(t.Scope, t.Name)
	}

	return NewTypeKey(t.Package, t.Name)
}

// MethodDecl is a method declared on a package-level type.
type MethodDecl struct {
	Receiver string // receiver base type name
	Name     string
	Pointer  bool // true for pointer receivers
	Line     int
}

// Module is a source file loaded under a qualified name. Types lists only the
// struct types declared in this file, in source order.
type Module struct {
	Name    string // slash separated qualified name, no extension
	Package string // package path (Name without its last segment)
	File    Path
	Types   []TypeDecl
}

// PackageOf returns the package path of a qualified module name.
func PackageOf(qualifiedName string) string {
	if i := strings.LastIndex(qualifiedName, "/"); i >= 0 {
		return qualifiedName[:i]
	}

	return ""
}
