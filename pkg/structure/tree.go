package structure

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Find returns the node at path
func (s Structure) Find(path string) (Node, bool) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, false
	}

	root, ok := s[segments[0]]
	if !ok || root == nil {
		return nil, false
	}

	var node Node = root

	for _, segment := range segments[1:] {
		folder, ok := node.(*Folder)
		if !ok {
			return nil, false
		}

		node, ok = folder.Child(segment)
		if !ok {
			return nil, false
		}
	}

	return node, true
}

// Remove returns a copy of s without the node at path. Removing a root key
// drops the whole container.
func Remove(existing Structure, path string) (Structure, bool) {
	updated := existing.Clone()

	segments, err := SplitPath(path)
	if err != nil {
		return updated, false
	}

	if len(segments) == 1 {
		if _, ok := updated[segments[0]]; !ok {
			return updated, false
		}

		delete(updated, segments[0])

		return updated, true
	}

	parent, ok := updated.Find(strings.Join(segments[:len(segments)-1], "/"))
	if !ok {
		return updated, false
	}

	folder, ok := parent.(*Folder)
	if !ok {
		return updated, false
	}

	name := segments[len(segments)-1]

	for i, child := range folder.Children {
		if child.NodeName() == name {
			folder.Children = append(folder.Children[:i], folder.Children[i+1:]...)
			return updated, true
		}
	}

	return updated, false
}

// RootNames returns the root keys in sorted order
func (s Structure) RootNames() []string {
	names := make([]string, 0, len(s))

	for name, root := range s {
		if root != nil {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// Walk visits every node depth-first, roots in sorted key order and children
// in stored order. depth is 0 for roots.
func (s Structure) Walk(fn func(node Node, depth int) error) error {
	for _, name := range s.RootNames() {
		if err := walk(s[name], 0, fn); err != nil {
			return err
		}
	}

	return nil
}

func walk(node Node, depth int, fn func(Node, int) error) error {
	if err := fn(node, depth); err != nil {
		return err
	}

	folder, ok := node.(*Folder)
	if !ok {
		return nil
	}

	for _, child := range folder.Children {
		if err := walk(child, depth+1, fn); err != nil {
			return err
		}
	}

	return nil
}

// Decode parses a persisted structure document. Empty input and JSON null
// decode to an empty structure.
func Decode(data []byte) (Structure, error) {
	s := Structure{}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return s, nil
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode structure: %w", err)
	}

	for name, root := range s {
		if root == nil {
			delete(s, name)
		}
	}

	return s, nil
}

// Encode serializes the structure for persistence
func (s Structure) Encode() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(map[string]*Folder(s))
}
