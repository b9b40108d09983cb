package structure

import (
	"encoding/json"
	"fmt"
)

// NodeType is the persisted discriminator of a tree node
type NodeType string

const (
	NodeTypeFile   NodeType = "file"
	NodeTypeFolder NodeType = "folder"
)

// Node is either a *File or a *Folder. Callers switch on the concrete type.
type Node interface {
	NodeName() string
	NodePath() string
	Type() NodeType

	clone() Node
}

// File is a leaf node of the project tree
type File struct {
	ID   string
	Name string
	Path string
}

// Folder holds an ordered list of children. Order is display order only.
type Folder struct {
	ID       string
	Name     string
	Path     string
	Children []Node
}

// FileDescriptor is a generated file's location as handed to Merge
type FileDescriptor struct {
	Path     string `json:"path"`
	FileType string `json:"fileType"`
}

// Structure maps a top-level container name to its root folder
type Structure map[string]*Folder

func NewFile(path, name string) *File {
	return &File{ID: Slug(path), Name: name, Path: path}
}

func NewFolder(path, name string) *Folder {
	return &Folder{ID: Slug(path), Name: name, Path: path, Children: []Node{}}
}

func (f *File) NodeName() string { return f.Name }
func (f *File) NodePath() string { return f.Path }
func (f *File) Type() NodeType   { return NodeTypeFile }

func (f *File) clone() Node {
	c := *f
	return &c
}

func (f *Folder) NodeName() string { return f.Name }
func (f *Folder) NodePath() string { return f.Path }
func (f *Folder) Type() NodeType   { return NodeTypeFolder }

func (f *Folder) clone() Node {
	return f.cloneFolder()
}

func (f *Folder) cloneFolder() *Folder {
	c := &Folder{
		ID:       f.ID,
		Name:     f.Name,
		Path:     f.Path,
		Children: make([]Node, len(f.Children)),
	}

	for i, child := range f.Children {
		c.Children[i] = child.clone()
	}

	return c
}

// Child returns the first child with the given name
func (f *Folder) Child(name string) (Node, bool) {
	for _, child := range f.Children {
		if child.NodeName() == name {
			return child, true
		}
	}

	return nil, false
}

// Clone returns a deep copy of the structure
func (s Structure) Clone() Structure {
	c := make(Structure, len(s))

	for key, root := range s {
		if root == nil {
			continue
		}

		c[key] = root.cloneFolder()
	}

	return c
}

type wireNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     NodeType    `json:"type"`
	Path     string      `json:"path"`
	Children []*wireNode `json:"children,omitempty"`
}

type wireFolder struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Path     string   `json:"path"`
	Children []Node   `json:"children"`
}

func (f *File) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireNode{ID: f.ID, Name: f.Name, Type: NodeTypeFile, Path: f.Path})
}

func (f *Folder) MarshalJSON() ([]byte, error) {
	children := f.Children
	if children == nil {
		children = []Node{}
	}

	return json.Marshal(wireFolder{
		ID:       f.ID,
		Name:     f.Name,
		Type:     NodeTypeFolder,
		Path:     f.Path,
		Children: children,
	})
}

func (f *Folder) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	node, err := w.toNode()
	if err != nil {
		return err
	}

	folder, ok := node.(*Folder)
	if !ok {
		return fmt.Errorf("%w: %q is a %s", ErrRootNotFolder, w.Path, w.Type)
	}

	*f = *folder

	return nil
}

func (w *wireNode) toNode() (Node, error) {
	switch w.Type {
	case NodeTypeFile:
		if len(w.Children) > 0 {
			return nil, fmt.Errorf("%w: file %q has children", ErrInvalidNode, w.Path)
		}

		return &File{ID: w.ID, Name: w.Name, Path: w.Path}, nil
	case NodeTypeFolder:
		folder := &Folder{ID: w.ID, Name: w.Name, Path: w.Path, Children: make([]Node, 0, len(w.Children))}

		for _, child := range w.Children {
			if child == nil {
				return nil, fmt.Errorf("%w: null child under %q", ErrInvalidNode, w.Path)
			}

			node, err := child.toNode()
			if err != nil {
				return nil, err
			}

			folder.Children = append(folder.Children, node)
		}

		return folder, nil
	default:
		return nil, fmt.Errorf("%w: unknown node type %q at %q", ErrInvalidNode, w.Type, w.Path)
	}
}
