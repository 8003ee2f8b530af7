package classify

import (
	"testing"

	"neurofocus/internal/snapshot"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVSCode(t *testing.T) {
	s := Classify("Code", "main.py - src - MyProject - Visual Studio Code")
	assert.Equal(t, snapshot.CategoryIDE, s.Category)
	assert.Equal(t, "main.py", s.FilePath)
	assert.Equal(t, 0, s.LineNumber)
	assert.Equal(t, "MyProject", s.ProjectName)
	assert.False(t, s.HasUnsavedChanges)
	assert.True(t, s.Category.Productive())
}

func TestClassifyVSCodeLineNumber(t *testing.T) {
	s := Classify("Code", "app.ts:45 - components - Frontend - Visual Studio Code")
	assert.Equal(t, snapshot.CategoryIDE, s.Category)
	assert.Equal(t, "app.ts", s.FilePath)
	assert.Equal(t, 45, s.LineNumber)
	assert.Equal(t, "Frontend", s.ProjectName)
}

func TestClassifyVSCodeUnsaved(t *testing.T) {
	s := Classify("Code", "● Untitled-1 - Visual Studio Code")
	assert.Equal(t, snapshot.CategoryIDE, s.Category)
	assert.True(t, s.HasUnsavedChanges)
	assert.Equal(t, "Untitled-1", s.FilePath)
}

func TestClassifyVSCodeDebugging(t *testing.T) {
	s := Classify("Code", "server.go - cmd - api [Debug] - Visual Studio Code")
	assert.Equal(t, snapshot.CategoryIDE, s.Category)
	assert.True(t, s.IsDebugging)
}

func TestClassifyJetBrains(t *testing.T) {
	s := Classify("idea64", "backend – UserService.java – IntelliJ IDEA")
	assert.Equal(t, snapshot.CategoryIDE, s.Category)
	assert.Equal(t, "backend", s.ProjectName)
	assert.Equal(t, "UserService.java", s.FilePath)

	// Plain-hyphen fallback.
	s = Classify("goland64", "neurofocus - tracker.go - GoLand")
	assert.Equal(t, snapshot.CategoryIDE, s.Category)
	assert.Equal(t, "neurofocus", s.ProjectName)
	assert.Equal(t, "tracker.go", s.FilePath)
}

func TestClassifyOffice(t *testing.T) {
	s := Classify("WINWORD", "report.docx - Microsoft Word")
	assert.Equal(t, snapshot.CategoryProductivity, s.Category)
	assert.Equal(t, "report.docx", s.FilePath)
	assert.False(t, s.HasUnsavedChanges)

	s = Classify("WINWORD", "report.docx* - Microsoft Word")
	assert.True(t, s.HasUnsavedChanges)
}

func TestClassifyTerminal(t *testing.T) {
	s := Classify("mintty", "MINGW64:/c/Users/dev/projects")
	assert.Equal(t, snapshot.CategoryTerminal, s.Category)
	assert.Equal(t, "/c/Users/dev/projects", s.FilePath)

	s = Classify("powershell", "Windows PowerShell")
	assert.Equal(t, snapshot.CategoryTerminal, s.Category)
	assert.True(t, s.Category.Productive())
}

func TestClassifyBrowserDocumentation(t *testing.T) {
	s := Classify("chrome", "go - How do I use channels? - Stack Overflow - Google Chrome")
	assert.Equal(t, snapshot.CategoryDocumentation, s.Category)
	assert.Equal(t, "Stack Overflow", s.BrowserDomain)
	assert.True(t, s.Category.Productive())
}

func TestClassifyBrowserDistracting(t *testing.T) {
	cases := []struct {
		title  string
		want   snapshot.Category
		domain string
	}{
		{"lofi hip hop radio - YouTube - Google Chrome", snapshot.CategoryEntertainment, "YouTube"},
		{"Home / Twitter - Google Chrome", snapshot.CategorySocialMedia, "Twitter"},
		{"Amazon.com: Online Shopping - Google Chrome", snapshot.CategoryShopping, "Amazon"},
		{"#general | Discord - Google Chrome", snapshot.CategoryCommunication, "Discord"},
	}
	for _, tc := range cases {
		s := Classify("chrome", tc.title)
		assert.Equal(t, tc.want, s.Category, tc.title)
		assert.Equal(t, tc.domain, s.BrowserDomain, tc.title)
		assert.False(t, s.Category.Productive(), tc.title)
	}
}

func TestClassifyBrowserSearchQuery(t *testing.T) {
	s := Classify("chrome", "golang ring buffer - Google Search - Google Chrome")
	assert.Equal(t, snapshot.CategoryDocumentation, s.Category)
	assert.Equal(t, "golang ring buffer", s.LastSearchQuery)
}

func TestClassifyUnknownFallback(t *testing.T) {
	s := Classify("obscure-app", "Some Window Title")
	assert.Equal(t, snapshot.CategoryUnknown, s.Category)
	assert.Equal(t, "obscure-app", s.AppName)
	assert.Equal(t, "Some Window Title", s.WindowTitle)
}

func TestClassifyIdempotent(t *testing.T) {
	title := "main.py - src - MyProject - Visual Studio Code"
	assert.Equal(t, Classify("Code", title), Classify("Code", title))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "stackoverflow.com", ExtractDomain("https://stackoverflow.com/questions/123"))
	assert.Equal(t, "github.com", ExtractDomain("http://github.com"))
	assert.Equal(t, "localhost:8080", ExtractDomain("http://localhost:8080/debug"))
}
