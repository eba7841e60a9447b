package gitcred

import (
	"slices"
	"testing"
)

func TestAnalyzePackageJSON(t *testing.T) {
	content := `{
		"name": "demo",
		"license": "MIT",
		"dependencies": {
			"react": "^18.0.0",
			"react-dom": "^18.0.0",
			"next": "13.0.0"
		},
		"devDependencies": {
			"typescript": "^5.0.0",
			"eslint": "^8.0.0",
			"jest": "^29.0.0",
			"vite": "^4.0.0"
		},
		"scripts": {
			"dev": "next dev",
			"build": "next build",
			"lint": "eslint ."
		}
	}`

	pkg, err := analyzePackageJSON(content)
	if err != nil {
		t.Fatalf("analyzePackageJSON() error = %v", err)
	}

	if !pkg.Exists {
		t.Error("Exists = false")
	}
	if pkg.ScriptCount != 3 {
		t.Errorf("ScriptCount = %d, want 3", pkg.ScriptCount)
	}
	if pkg.DependencyCount != 3 {
		t.Errorf("DependencyCount = %d, want 3", pkg.DependencyCount)
	}
	if pkg.DevDependencyCount != 4 {
		t.Errorf("DevDependencyCount = %d, want 4", pkg.DevDependencyCount)
	}
	if !slices.Contains(pkg.Frameworks, "react") || !slices.Contains(pkg.Frameworks, "nextjs") {
		t.Errorf("Frameworks = %v, want react and nextjs", pkg.Frameworks)
	}
	if !pkg.HasLinting {
		t.Error("HasLinting = false, want true")
	}
	if !pkg.HasTesting {
		t.Error("HasTesting = false, want true")
	}
	if !pkg.HasTypeScript {
		t.Error("HasTypeScript = false, want true")
	}
	if !pkg.HasValidLicense {
		t.Error("HasValidLicense = false, want true")
	}
	if !slices.Contains(pkg.BuildTools, "vite") {
		t.Errorf("BuildTools = %v, want vite", pkg.BuildTools)
	}
	if !slices.Contains(pkg.TestingFrameworks, "jest") {
		t.Errorf("TestingFrameworks = %v, want jest", pkg.TestingFrameworks)
	}
}

func TestAnalyzePackageJSONScriptDetection(t *testing.T) {
	// No tool dependencies, but script names signal linting and testing.
	content := `{"scripts": {"lint:fix": "custom-linter", "test:unit": "custom-runner"}}`

	pkg, err := analyzePackageJSON(content)
	if err != nil {
		t.Fatalf("analyzePackageJSON() error = %v", err)
	}
	if !pkg.HasLinting {
		t.Error("HasLinting = false, want true from lint script")
	}
	if !pkg.HasTesting {
		t.Error("HasTesting = false, want true from test script")
	}
	if pkg.HasValidLicense {
		t.Error("HasValidLicense = true without a license field")
	}
}

func TestAnalyzePackageJSONMalformed(t *testing.T) {
	if _, err := analyzePackageJSON("{not json"); err == nil {
		t.Error("analyzePackageJSON() with malformed input should return error")
	}
}

func TestFrameworkOrderDeterministic(t *testing.T) {
	content := `{"dependencies": {"rails": "7", "react": "18", "django": "4"}}`

	pkg, err := analyzePackageJSON(content)
	if err != nil {
		t.Fatalf("analyzePackageJSON() error = %v", err)
	}
	want := []string{"react", "django", "rails"}
	if !slices.Equal(pkg.Frameworks, want) {
		t.Errorf("Frameworks = %v, want %v (table order)", pkg.Frameworks, want)
	}
}
