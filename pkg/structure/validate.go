package structure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "structure.schema.json"

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": { "$ref": "#/definitions/folder" },
  "definitions": {
    "node": {
      "type": "object",
      "required": ["id", "name", "type", "path"],
      "properties": {
        "id": { "type": "string" },
        "name": { "type": "string", "minLength": 1, "pattern": "^[^/]+$" },
        "type": { "enum": ["file", "folder"] },
        "path": { "type": "string", "minLength": 1 },
        "children": { "type": "array", "items": { "$ref": "#/definitions/node" } }
      },
      "if": { "properties": { "type": { "const": "file" } } },
      "then": { "not": { "required": ["children"] } }
    },
    "folder": {
      "allOf": [
        { "$ref": "#/definitions/node" },
        { "properties": { "type": { "const": "folder" } } }
      ]
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString(schemaURL, documentSchema)

// Validate checks a client-supplied structure document: JSON schema first,
// then the tree invariants the schema cannot express.
func Validate(data []byte) (Structure, error) {
	var doc any

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}

	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := s.CheckInvariants(); err != nil {
		return nil, err
	}

	s.deriveIDs()

	return s, nil
}

// deriveIDs overwrites client-sent ids with the slug of each path
func (s Structure) deriveIDs() {
	_ = s.Walk(func(node Node, _ int) error {
		switch n := node.(type) {
		case *File:
			n.ID = Slug(n.Path)
		case *Folder:
			n.ID = Slug(n.Path)
		}
		return nil
	})
}

// CheckInvariants verifies that root keys match root names, every path is
// the join of its ancestors' names and no folder holds two children with the
// same name.
func (s Structure) CheckInvariants() error {
	for key, root := range s {
		if root == nil {
			continue
		}

		if root.Name != key {
			return fmt.Errorf("%w: root key %q holds folder %q", ErrInvalidNode, key, root.Name)
		}

		if err := checkNode(root, ""); err != nil {
			return err
		}
	}

	return nil
}

func checkNode(node Node, parentPath string) error {
	expected := node.NodeName()
	if parentPath != "" {
		expected = parentPath + "/" + node.NodeName()
	}

	if node.NodeName() == "" || strings.Contains(node.NodeName(), "/") {
		return fmt.Errorf("%w: bad name %q under %q", ErrInvalidNode, node.NodeName(), parentPath)
	}

	if node.NodePath() != expected {
		return fmt.Errorf("%w: path %q should be %q", ErrInvalidNode, node.NodePath(), expected)
	}

	folder, ok := node.(*Folder)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{}, len(folder.Children))

	for _, child := range folder.Children {
		if _, dup := seen[child.NodeName()]; dup {
			return fmt.Errorf("%w: duplicate child %q under %q", ErrInvalidNode, child.NodeName(), folder.Path)
		}
		seen[child.NodeName()] = struct{}{}

		if err := checkNode(child, expected); err != nil {
			return err
		}
	}

	return nil
}
