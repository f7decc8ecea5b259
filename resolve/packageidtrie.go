package resolve

import (
	radix "github.com/armon/go-radix"
)

// packageIdTrie is a typed wrapper over armon/go-radix's Tree, following
// golang-dep's typed_radix.go idiom of a thin generic-free wrapper per value
// type rather than scattering type assertions through calling code. It
// backs the ContainerCache's diagnostic snapshot with prefix search, and
// UnsatisfiableError groups its affected-package report the same way.
type packageIdTrie struct {
	t *radix.Tree
}

func newPackageIdTrie() packageIdTrie {
	return packageIdTrie{t: radix.New()}
}

// Insert records id under its key, returning whether an entry already
// existed at that key.
func (t packageIdTrie) Insert(id PackageId) bool {
	_, had := t.t.Insert(id.key(), id)
	return had
}

// Delete removes id's key, if present.
func (t packageIdTrie) Delete(id PackageId) {
	t.t.Delete(id.key())
}

// Len reports how many ids are recorded.
func (t packageIdTrie) Len() int {
	return t.t.Len()
}

// PrefixSearch returns every recorded PackageId whose key has the given
// prefix, letting a caller list e.g. every cached container under one
// source host.
func (t packageIdTrie) PrefixSearch(prefix string) []PackageId {
	var out []PackageId
	t.t.WalkPrefix(prefix, func(s string, v interface{}) bool {
		out = append(out, v.(PackageId))
		return false
	})
	return out
}

// All returns every recorded PackageId.
func (t packageIdTrie) All() []PackageId {
	return t.PrefixSearch("")
}
