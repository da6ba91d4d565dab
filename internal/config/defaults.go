package config

import "github.com/cdeniger/agentkit/internal/types"

// DefaultMapOutputFileName is the file the codebase map is written to.
const DefaultMapOutputFileName = "CODEBASE.md"

// DefaultConfiguration returns the built-in configuration every loaded file is layered onto.
func DefaultConfiguration() ApplicationConfiguration {
	useGitignore := false
	skipExisting := false
	return ApplicationConfiguration{
		Map: MapConfiguration{
			Output: DefaultMapOutputFileName,
			ExcludedDirectories: []string{
				"node_modules", ".git", "dist", "build", ".firebase",
				"coverage", ".DS_Store", "__pycache__", ".venv", "venv",
			},
			ExcludedFiles: []string{
				".DS_Store", "package-lock.json", "yarn.lock",
				".gitignore", ".firebaserc", DefaultMapOutputFileName,
			},
			KeyFilenames: []string{
				"schema.ts", "App.tsx", "firebase.json", "firestore.rules",
				"GEMINI.md", DefaultMapOutputFileName,
			},
			RecognizedExtensions: []string{".ts", ".tsx", ".js", ".jsx", ".py"},
			UseGitignore:         &useGitignore,
			Structure: []types.StructureEntry{
				{Path: "/src", Description: "Frontend Application (React/Vite)"},
				{Path: "/functions", Description: "Backend Logic (Firebase Cloud Functions)"},
				{Path: "/.agent", Description: "AI Configuration & Governance"},
			},
		},
		Bootstrap: BootstrapConfiguration{
			SkipExisting: &skipExisting,
		},
	}
}
