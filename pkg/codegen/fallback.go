package codegen

import (
	"fmt"
	"strings"

	"github.com/superbullet/superbullet/pkg/knit"
)

const FallbackProvider = "template"

// Fallback builds the deterministic template module for a request
func Fallback(req Request) Response {
	name := req.ComponentName
	description := req.Description

	var (
		kindLabel   string
		signature   string
		body        string
		explanation string
		warning     string
	)

	switch req.ComponentType {
	case knit.ComponentKindGet:
		kindLabel = "Get (Read operation)"
		signature = fmt.Sprintf(`
    @param playerId: number - The player's user ID
    @return any - The requested data
]]
function %s.Get(playerId)`, name)
		body = fmt.Sprintf(`    local success, data = pcall(function()
        return nil
    end)

    if success then
        return data
    else
        warn("[%[1]s] Failed to get data:", data)
        return nil
    end`, name)
		explanation = fmt.Sprintf("Generated a GET component for %s. Includes error handling and pcall wrapper for safe execution.", description)
		warning = "Remember to implement actual data retrieval logic"
	case knit.ComponentKindSet:
		kindLabel = "Set (Write operation)"
		signature = fmt.Sprintf(`
    @param playerId: number - The player's user ID
    @param value: any - The value to set
    @return boolean - Success status
]]
function %s.Set(playerId, value)`, name)
		body = fmt.Sprintf(`    if not playerId or value == nil then
        warn("[%[1]s] Invalid parameters")
        return false
    end

    local success, result = pcall(function()
        return true
    end)

    if success then
        return result
    else
        warn("[%[1]s] Failed to set data:", result)
        return false
    end`, name)
		explanation = fmt.Sprintf("Generated a SET component for %s. Includes input validation and error handling.", description)
		warning = "Ensure proper data validation before saving"
	default:
		kindLabel = "Other (Specialized operation)"
		signature = fmt.Sprintf(`
    Specialized component for business logic
]]
function %s.Execute(...)`, name)
		body = fmt.Sprintf(`    local args = {...}

    local success, result = pcall(function()
        return true
    end)

    if success then
        return result
    else
        warn("[%[1]s] Execution failed:", result)
        return false
    end`, name)
		explanation = fmt.Sprintf("Generated an OTHER component for %s. Flexible structure for specialized operations.", description)
		warning = "Define clear function signatures for your use case"
	}

	var code strings.Builder

	fmt.Fprintf(&code, "-- %s Component\n", name)
	fmt.Fprintf(&code, "-- Type: %s\n", kindLabel)
	fmt.Fprintf(&code, "-- Description: %s\n", description)
	code.WriteString("-- Generated by SuperBullet\n\n")
	fmt.Fprintf(&code, "local %s = {}\n\n", name)
	fmt.Fprintf(&code, "--[[\n    %s\n%s\n%s\nend\n\n", description, signature, body)
	fmt.Fprintf(&code, "return %s\n", name)

	return Response{
		Code:         code.String(),
		Explanation:  explanation,
		Dependencies: []string{},
		Warnings:     []string{warning},
		Provider:     FallbackProvider,
		FromFallback: true,
	}
}
