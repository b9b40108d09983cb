package structure

import (
	"errors"
	"fmt"
	"strings"
)

// SkippedDescriptor is a descriptor Merge rejected
type SkippedDescriptor struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-" yaml:"-"`
}

// MergeReport describes what Merge did with each descriptor
type MergeReport struct {
	// Created lists file paths that were added to the tree
	Created []string `json:"created"`
	// Existing lists file paths that were already present and left untouched
	Existing []string `json:"existing"`
	// Skipped lists malformed or conflicting descriptors
	Skipped []SkippedDescriptor `json:"skipped"`
}

type insertResult int

const (
	insertedRoot insertResult = iota
	insertedFile
	fileExisted
)

// Merge folds the descriptor paths into a copy of existing and returns it.
// existing is never modified. A descriptor whose file already exists leaves
// that node as it is; malformed and conflicting descriptors are skipped and
// reported without affecting the rest of the batch.
func Merge(existing Structure, descriptors []FileDescriptor) (Structure, MergeReport) {
	merged := existing.Clone()
	report := MergeReport{}

	for _, descriptor := range descriptors {
		result, err := merged.insert(descriptor.Path)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedDescriptor{
				Path:   descriptor.Path,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}

		switch result {
		case insertedFile:
			report.Created = append(report.Created, descriptor.Path)
		case fileExisted:
			report.Existing = append(report.Existing, descriptor.Path)
		}
	}

	return merged, report
}

// IsSkipReason reports whether a skipped descriptor was rejected for the given reason
func (s SkippedDescriptor) IsSkipReason(target error) bool {
	return errors.Is(s.Err, target)
}

// SplitPath splits a slash-delimited path, rejecting empty paths and empty segments
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	segments := strings.Split(path, "/")

	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptySegment, path)
		}
	}

	return segments, nil
}

// insert mutates s. Type conflicts can only be found on nodes that already
// existed, and every node after a newly created one is new as well, so a
// conflicting path is rejected before anything is appended.
func (s Structure) insert(path string) (insertResult, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return 0, err
	}

	rootName := segments[0]

	root, ok := s[rootName]
	if !ok || root == nil {
		root = NewFolder(rootName, rootName)
		s[rootName] = root
	}

	if len(segments) == 1 {
		return insertedRoot, nil
	}

	current := root
	last := len(segments) - 1

	for i := 1; i < last; i++ {
		child, ok := current.Child(segments[i])
		if !ok {
			folder := NewFolder(strings.Join(segments[:i+1], "/"), segments[i])
			current.Children = append(current.Children, folder)
			current = folder
			continue
		}

		switch node := child.(type) {
		case *Folder:
			current = node
		case *File:
			return 0, fmt.Errorf("%w: %q is a file", ErrTypeConflict, node.Path)
		}
	}

	child, ok := current.Child(segments[last])
	if !ok {
		current.Children = append(current.Children, NewFile(path, segments[last]))
		return insertedFile, nil
	}

	switch node := child.(type) {
	case *File:
		return fileExisted, nil
	case *Folder:
		return 0, fmt.Errorf("%w: %q is a folder", ErrTypeConflict, node.Path)
	}

	return 0, fmt.Errorf("%w: %T", ErrInvalidNode, child)
}
