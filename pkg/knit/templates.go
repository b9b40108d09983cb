package knit

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/superbullet/superbullet/pkg/structure"
)

var templateFuncs = template.FuncMap{
	"comment": func(s string) string {
		if s == "" {
			return "No description provided"
		}
		return strings.ReplaceAll(s, "]]", "] ]")
	},
}

var serviceTemplate = template.Must(template.New("init.lua").Funcs(templateFuncs).Parse(`-- {{.ServiceName}}
-- Knit service generated by SuperBullet

local ReplicatedStorage = game:GetService("ReplicatedStorage")
local Knit = require(ReplicatedStorage:WaitForChild("Knit"))

local Components = script:WaitForChild("Components")
local GetComponents = require(Components:WaitForChild("Get()"))
local SetComponents = require(Components:WaitForChild("Set()"))

local {{.ServiceName}} = Knit.CreateService({
	Name = "{{.ServiceName}}",
	Client = {},
})
{{range .Components.Get}}
function {{$.ServiceName}}.Client:{{.Name}}(player, ...)
	return GetComponents.{{.Name}}(player, ...)
end
{{end}}
function {{.ServiceName}}:KnitInit()
	self.Get = GetComponents
	self.Set = SetComponents
end

function {{.ServiceName}}:KnitStart()
end

return {{.ServiceName}}
`))

var aggregateTemplate = template.Must(template.New("aggregate").Funcs(templateFuncs).Parse(`-- {{.Entry}} components for {{.ServiceName}}

local {{.Entry}} = {}
{{range .Items}}
--[[
	{{comment .Description}}
]]
{{if .Generated -}}
function {{$.Entry}}.{{.Name}}(...)
	return require(script.Parent.Generated.{{.Name}}).{{$.Entry}}(...)
end
{{else if eq $.Entry "Get" -}}
function {{$.Entry}}.{{.Name}}(player)
	local success, result = pcall(function()
		return nil
	end)

	if not success then
		warn("[{{$.ServiceName}}.{{.Name}}] Failed to get data:", result)
		return nil
	end

	return result
end
{{else -}}
function {{$.Entry}}.{{.Name}}(player, value)
	if not player or value == nil then
		warn("[{{$.ServiceName}}.{{.Name}}] Invalid parameters")
		return false
	end

	local success, result = pcall(function()
		return true
	end)

	if not success then
		warn("[{{$.ServiceName}}.{{.Name}}] Failed to set data:", result)
		return false
	end

	return result
end
{{end -}}
{{end}}
return {{.Entry}}
`))

var otherTemplate = template.Must(template.New("other").Funcs(templateFuncs).Parse(`-- {{.Name}}
-- Component of {{.ServiceName}}

local {{.Name}} = {}

--[[
	{{comment .Description}}
]]
function {{.Name}}.Execute(...)
	local success, result = pcall(function()
		return true
	end)

	if not success then
		warn("[{{.ServiceName}}.{{.Name}}] Execution failed:", result)
		return false
	end

	return result
end

return {{.Name}}
`))

var controllerTemplate = template.Must(template.New("controller").Funcs(templateFuncs).Parse(`-- {{.ServiceName}}Controller
-- Client controller for {{.ServiceName}}

local ReplicatedStorage = game:GetService("ReplicatedStorage")
local Knit = require(ReplicatedStorage:WaitForChild("Knit"))

local {{.ServiceName}}Controller = Knit.CreateController({
	Name = "{{.ServiceName}}Controller",
})

function {{.ServiceName}}Controller:KnitStart()
	self.Service = Knit.GetService("{{.ServiceName}}")
end
{{range .Components.Get}}
function {{$.ServiceName}}Controller:{{.Name}}(...)
	return self.Service:{{.Name}}(...)
end
{{end}}
return {{.ServiceName}}Controller
`))

type aggregateItem struct {
	Component
	Generated bool
}

type aggregateData struct {
	ServiceName string
	Entry       string
	Items       []aggregateItem
}

type otherData struct {
	Component
	ServiceName string
}

// GenerateService renders every file of a Knit service. The order is stable:
// service module, Get() and Set() aggregates, generated component modules,
// other components, client controller.
func GenerateService(config ServiceConfig) ([]GeneratedFile, error) {
	config, err := config.Normalize()
	if err != nil {
		return nil, err
	}

	root := ServiceRoot(config.ServiceName)
	files := []GeneratedFile{}

	add := func(path string, tmpl *template.Template, data any) error {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("failed to render %s: %w", path, err)
		}

		files = append(files, GeneratedFile{Path: path, Content: buf.String(), FileType: FileTypeLua})

		return nil
	}

	if err := add(root+"/init.lua", serviceTemplate, config); err != nil {
		return nil, err
	}

	aggregates := []struct {
		kind       ComponentKind
		components []Component
	}{
		{ComponentKindGet, config.Components.Get},
		{ComponentKindSet, config.Components.Set},
	}

	for _, aggregate := range aggregates {
		data := aggregateData{ServiceName: config.ServiceName, Entry: aggregate.kind.EntryPoint()}

		for _, component := range aggregate.components {
			_, generated := config.Generated[component.Name]
			data.Items = append(data.Items, aggregateItem{Component: component, Generated: generated})
		}

		path := fmt.Sprintf("%s/Components/%s().lua", root, data.Entry)
		if err := add(path, aggregateTemplate, data); err != nil {
			return nil, err
		}
	}

	for _, component := range append(append([]Component{}, config.Components.Get...), config.Components.Set...) {
		source, ok := config.Generated[component.Name]
		if !ok {
			continue
		}

		files = append(files, GeneratedFile{
			Path:     fmt.Sprintf("%s/Components/Generated/%s.lua", root, component.Name),
			Content:  source,
			FileType: FileTypeLua,
		})
	}

	for _, component := range config.Components.Others {
		path := fmt.Sprintf("%s/Components/Others/%s.lua", root, component.Name)

		if source, ok := config.Generated[component.Name]; ok {
			files = append(files, GeneratedFile{Path: path, Content: source, FileType: FileTypeLua})
			continue
		}

		if err := add(path, otherTemplate, otherData{Component: component, ServiceName: config.ServiceName}); err != nil {
			return nil, err
		}
	}

	controllerPath := fmt.Sprintf("%s/StarterPlayerScripts/%sController.lua", structure.StarterPlayer, config.ServiceName)
	if err := add(controllerPath, controllerTemplate, config); err != nil {
		return nil, err
	}

	return files, nil
}
