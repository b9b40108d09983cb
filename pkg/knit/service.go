package knit

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/superbullet/superbullet/pkg/structure"
)

// ComponentKind groups components by the kind of operation they perform
type ComponentKind string

const (
	ComponentKindGet   ComponentKind = "get"
	ComponentKindSet   ComponentKind = "set"
	ComponentKindOther ComponentKind = "other"
)

// EntryPoint is the function a component module exposes
func (k ComponentKind) EntryPoint() string {
	switch k {
	case ComponentKindGet:
		return "Get"
	case ComponentKindSet:
		return "Set"
	default:
		return "Execute"
	}
}

func (k ComponentKind) IsValid() bool {
	switch k {
	case ComponentKindGet, ComponentKindSet, ComponentKindOther:
		return true
	}
	return false
}

const FileTypeLua = "lua"

var (
	ErrInvalidServiceName   = errors.New("service name must be a Lua identifier")
	ErrInvalidComponentName = errors.New("component name must be a Lua identifier")
	ErrDuplicateComponent   = errors.New("duplicate component name")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Component struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Components struct {
	Get    []Component `json:"get"`
	Set    []Component `json:"set"`
	Others []Component `json:"others"`
}

// ServiceConfig describes the Knit service to scaffold. Generated maps a
// component name to a complete module source that replaces the stub.
type ServiceConfig struct {
	ServiceName string            `json:"serviceName"`
	Components  Components        `json:"components"`
	Generated   map[string]string `json:"-"`
}

// GeneratedFile is a scaffolded file ready to be stored
type GeneratedFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	FileType string `json:"fileType"`
}

// Normalize trims names, drops components with blank names and validates identifiers
func (c ServiceConfig) Normalize() (ServiceConfig, error) {
	c.ServiceName = strings.TrimSpace(c.ServiceName)
	if !identifier.MatchString(c.ServiceName) {
		return c, fmt.Errorf("%w: %q", ErrInvalidServiceName, c.ServiceName)
	}

	seen := map[string]struct{}{}

	clean := func(components []Component) ([]Component, error) {
		out := make([]Component, 0, len(components))

		for _, component := range components {
			component.Name = strings.TrimSpace(component.Name)
			component.Description = strings.TrimSpace(component.Description)

			if component.Name == "" {
				continue
			}

			if !identifier.MatchString(component.Name) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidComponentName, component.Name)
			}

			if _, dup := seen[component.Name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateComponent, component.Name)
			}
			seen[component.Name] = struct{}{}

			out = append(out, component)
		}

		return out, nil
	}

	var err error

	if c.Components.Get, err = clean(c.Components.Get); err != nil {
		return c, err
	}
	if c.Components.Set, err = clean(c.Components.Set); err != nil {
		return c, err
	}
	if c.Components.Others, err = clean(c.Components.Others); err != nil {
		return c, err
	}

	return c, nil
}

// Count returns the number of non-blank components
func (c Components) Count() int {
	return len(c.Get) + len(c.Set) + len(c.Others)
}

// ServiceRoot is the folder a service is scaffolded into
func ServiceRoot(serviceName string) string {
	return structure.ServerScriptService + "/" + serviceName
}

// Descriptors converts generated files to tree descriptors
func Descriptors(files []GeneratedFile) []structure.FileDescriptor {
	out := make([]structure.FileDescriptor, len(files))

	for i, file := range files {
		out[i] = structure.FileDescriptor{Path: file.Path, FileType: file.FileType}
	}

	return out
}
