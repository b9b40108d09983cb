package structure

// Top-level containers of a Roblox place
const (
	ServerScriptService = "ServerScriptService"
	ServerStorage       = "ServerStorage"
	ReplicatedStorage   = "ReplicatedStorage"
	StarterPlayer       = "StarterPlayer"
	StarterGui          = "StarterGui"
	StarterPack         = "StarterPack"
	Workspace           = "Workspace"
)

var defaultFolders = []string{
	ServerScriptService,
	ServerStorage,
	ReplicatedStorage + "/Knit",
	StarterPlayer + "/StarterPlayerScripts",
	StarterPlayer + "/StarterCharacterScripts",
	StarterGui,
	StarterPack,
	Workspace,
}

// Default returns the skeleton every new project starts with
func Default() Structure {
	s := Structure{}

	for _, path := range defaultFolders {
		s.ensureFolder(path)
	}

	return s
}

func (s Structure) ensureFolder(path string) {
	segments, err := SplitPath(path)
	if err != nil {
		return
	}

	current, ok := s[segments[0]]
	if !ok {
		current = NewFolder(segments[0], segments[0])
		s[segments[0]] = current
	}

	for i := 1; i < len(segments); i++ {
		child, ok := current.Child(segments[i])
		if folder, isFolder := child.(*Folder); ok && isFolder {
			current = folder
			continue
		}

		folder := NewFolder(current.Path+"/"+segments[i], segments[i])
		current.Children = append(current.Children, folder)
		current = folder
	}
}
