package codegen

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/superbullet/superbullet/pkg/knit"
)

var (
	ErrMissingFields        = errors.New("missing required fields: componentName, componentType, description")
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrInvalidComponentName = errors.New("component name must be a Lua identifier")
)

// Request describes one Knit component to generate
type Request struct {
	ComponentName string             `json:"componentName"`
	ComponentType knit.ComponentKind `json:"componentType"`
	Description   string             `json:"description"`
	Context       *RequestContext    `json:"context,omitempty"`
}

type RequestContext struct {
	ServiceName       string   `json:"serviceName"`
	RelatedComponents []string `json:"relatedComponents,omitempty"`
	DataStructure     string   `json:"dataStructure,omitempty"`
}

// Response is the generated module plus notes for the editor
type Response struct {
	Code         string   `json:"code"`
	Explanation  string   `json:"explanation"`
	Dependencies []string `json:"dependencies"`
	Warnings     []string `json:"warnings"`
	Provider     string   `json:"provider"`
	Model        string   `json:"model,omitempty"`
	FromFallback bool     `json:"fromFallback"`
	Cached       bool     `json:"cached,omitempty"`
}

// Validate checks required fields
func (r Request) Validate() error {
	if strings.TrimSpace(r.ComponentName) == "" || r.ComponentType == "" || strings.TrimSpace(r.Description) == "" {
		return ErrMissingFields
	}

	if !r.ComponentType.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnknownComponentType, r.ComponentType)
	}

	if _, err := (knit.ServiceConfig{ServiceName: r.ComponentName}).Normalize(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidComponentName, r.ComponentName)
	}

	return nil
}

// CacheKey identifies a request for a given model
func CacheKey(req Request, modelID string) string {
	payload, _ := json.Marshal(struct {
		Request
		Model string `json:"model"`
	}{req, modelID})

	sum := sha256.Sum256(payload)

	return "codegen:" + hex.EncodeToString(sum[:])
}

func typeDescription(kind knit.ComponentKind) string {
	switch kind {
	case knit.ComponentKindGet:
		return "Read operation - retrieves data without side effects"
	case knit.ComponentKindSet:
		return "Write operation - modifies data or state"
	default:
		return "Specialized operation - custom business logic"
	}
}
