package codegen

import (
	"fmt"
	"strings"
)

const SystemPrompt = "You are an expert Roblox Lua developer specializing in the Knit framework. Generate production-ready, well-documented Lua code."

// BuildPrompt renders the user prompt sent to chat-completion providers
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Generate a Lua module for a Knit service component with the following specifications:\n\n")
	fmt.Fprintf(&b, "Component Name: %s\n", req.ComponentName)
	fmt.Fprintf(&b, "Component Type: %s (%s)\n", strings.ToUpper(string(req.ComponentType)), typeDescription(req.ComponentType))
	fmt.Fprintf(&b, "Description: %s\n", req.Description)

	if req.Context != nil {
		if req.Context.ServiceName != "" {
			fmt.Fprintf(&b, "Service: %s\n", req.Context.ServiceName)
		}
		if len(req.Context.RelatedComponents) > 0 {
			fmt.Fprintf(&b, "Related Components: %s\n", strings.Join(req.Context.RelatedComponents, ", "))
		}
		if req.Context.DataStructure != "" {
			fmt.Fprintf(&b, "Data Structure: %s\n", req.Context.DataStructure)
		}
	}

	fmt.Fprintf(&b, `
Requirements:
1. Follow Knit framework best practices
2. Include proper error handling with pcall
3. Add detailed comments and documentation
4. Use type annotations where applicable
5. Handle edge cases and validation
6. Return proper success/failure indicators
7. Follow Roblox Lua conventions
8. Return a module table named %[1]s that exposes %[1]s.%[2]s

Generate only the Lua code, properly formatted and production-ready.`, req.ComponentName, req.ComponentType.EntryPoint())

	return b.String()
}

// stripCodeFence removes a surrounding markdown fence such as ```lua ... ```
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	firstNewline := strings.Index(trimmed, "\n")
	if firstNewline < 0 {
		return ""
	}

	body := trimmed[firstNewline+1:]
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")

	return strings.TrimSpace(body) + "\n"
}
