// Package classify turns a raw (process name, window title) pair into a
// structured context snapshot. Apps encode a lot of context in their
// titles:
//
//	VS Code:  "main.go - src - MyProject - Visual Studio Code"
//	Chrome:   "GitHub - Pull Requests - Google Chrome"
//	Terminal: "MINGW64:/c/Users/dev/projects"
//
// Each app family has its own parser, tried in order; the generic fallback
// always succeeds, so Classify never fails and is idempotent for the same
// input. Perfect accuracy is not the goal — "main.go in VS Code" beats
// nothing even when the line number is missed.
package classify

import (
	"strconv"
	"strings"

	"neurofocus/internal/snapshot"
)

// Classify parses appName and windowTitle into a snapshot. The category,
// parsed fields and flags are filled; timing and activity counters are left
// for the tracker.
func Classify(appName, windowTitle string) snapshot.Snapshot {
	s := snapshot.Snapshot{
		AppName:     appName,
		WindowTitle: windowTitle,
	}

	switch {
	case parseVSCode(windowTitle, &s):
	case parseJetBrains(windowTitle, &s):
	case parseOffice(windowTitle, &s):
	case parseTerminal(windowTitle, &s):
	case parseBrowser(windowTitle, &s):
	default:
		s.Category = snapshot.CategoryUnknown
	}
	return s
}

// parseVSCode handles "file - folder - project - Visual Studio Code",
// optionally with ":line" after the file and a leading unsaved marker.
func parseVSCode(title string, s *snapshot.Snapshot) bool {
	if !strings.HasSuffix(title, "Visual Studio Code") &&
		!strings.HasSuffix(title, "VS Code") &&
		!strings.HasSuffix(title, "Code") {
		return false
	}
	s.Category = snapshot.CategoryIDE

	rest := title
	for _, marker := range []string{"● ", "• "} { // ● or •
		if strings.HasPrefix(rest, marker) {
			s.HasUnsavedChanges = true
			rest = strings.TrimPrefix(rest, marker)
			break
		}
	}

	parts := strings.Split(rest, " - ")
	if len(parts) < 2 {
		// Welcome page or similar, keep the raw title only.
		return true
	}

	file := strings.TrimSpace(parts[0])
	if i := strings.LastIndex(file, ":"); i > 0 {
		if n, err := strconv.Atoi(file[i+1:]); err == nil {
			s.LineNumber = n
			file = file[:i]
		}
	}
	s.FilePath = file

	// Project name is usually the second-to-last part before the app name.
	if len(parts) >= 3 {
		s.ProjectName = strings.TrimSpace(parts[len(parts)-2])
	}

	s.IsDebugging = strings.Contains(title, "[Debug]") ||
		strings.Contains(title, "Debugging")
	return true
}

// parseJetBrains handles "project – filename – IDE Name". JetBrains uses an
// en-dash, with a plain hyphen fallback.
func parseJetBrains(title string, s *snapshot.Snapshot) bool {
	ides := []string{"IntelliJ IDEA", "PyCharm", "WebStorm", "CLion", "Rider", "GoLand", "RubyMine"}
	found := false
	for _, ide := range ides {
		if strings.Contains(title, ide) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	s.Category = snapshot.CategoryIDE

	sep := " – " // en-dash
	if !strings.Contains(title, sep) {
		sep = " - "
	}
	parts := strings.Split(title, sep)
	if len(parts) >= 2 {
		s.ProjectName = strings.TrimSpace(parts[0])
		s.FilePath = strings.TrimSpace(parts[1])
	}
	return true
}

// parseOffice handles "Document Name - Microsoft Application".
func parseOffice(title string, s *snapshot.Snapshot) bool {
	suffixes := []string{"Word", "Excel", "PowerPoint", "Outlook", "OneNote"}
	found := false
	for _, suf := range suffixes {
		if strings.HasSuffix(title, suf) {
			found = true
			break
		}
	}
	if !found && !strings.Contains(title, "Microsoft Word") &&
		!strings.Contains(title, "Microsoft Excel") {
		return false
	}
	s.Category = snapshot.CategoryProductivity
	s.IsProductive = true

	if doc, _, ok := strings.Cut(title, " - "); ok {
		s.FilePath = strings.TrimSpace(doc)
		s.HasUnsavedChanges = strings.Contains(doc, "*")
	}
	return true
}

// parseTerminal matches common terminal and shell window titles.
func parseTerminal(title string, s *snapshot.Snapshot) bool {
	markers := []string{
		"PowerShell", "cmd.exe", "Command Prompt", "Windows Terminal",
		"MINGW", "Git Bash", "Bash", "Terminal",
	}
	found := false
	for _, m := range markers {
		if strings.Contains(title, m) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	s.Category = snapshot.CategoryTerminal
	s.IsProductive = true

	// Git Bash puts the working directory after the MINGW prefix.
	if strings.Contains(title, "MINGW64:") || strings.Contains(title, "MINGW32:") {
		if _, path, ok := strings.Cut(title, ":"); ok {
			s.FilePath = path
		}
	}
	return true
}

var productiveSites = []string{
	"GitHub", "Stack Overflow", "stackoverflow",
	"MDN", "docs.", "documentation", "Wikipedia",
	"Microsoft Learn", "Google Docs", "Notion",
	"localhost", "127.0.0.1",
}

var distractingSites = []string{
	"YouTube", "Twitter", "Facebook", "Instagram",
	"Reddit", "Netflix", "Twitch", "TikTok",
	"Discord", "Amazon", "eBay",
}

// parseBrowser handles Chrome/Edge/Firefox titles, classifying known sites
// and pulling out search queries.
func parseBrowser(title string, s *snapshot.Snapshot) bool {
	browser := strings.HasSuffix(title, "Google Chrome") ||
		strings.HasSuffix(title, "Chrome") ||
		strings.HasSuffix(title, "Microsoft Edge") ||
		strings.HasSuffix(title, "Edge") ||
		strings.HasSuffix(title, "Mozilla Firefox") ||
		strings.HasSuffix(title, "Firefox")
	if !browser {
		return false
	}

	// Neutral until a known site says otherwise.
	s.Category = snapshot.CategoryBrowser

	for _, site := range productiveSites {
		if strings.Contains(title, site) {
			s.Category = snapshot.CategoryDocumentation
			s.BrowserDomain = site
			break
		}
	}
	for _, site := range distractingSites {
		if !strings.Contains(title, site) {
			continue
		}
		switch site {
		case "YouTube", "Netflix", "Twitch":
			s.Category = snapshot.CategoryEntertainment
		case "Amazon", "eBay":
			s.Category = snapshot.CategoryShopping
		case "Discord":
			s.Category = snapshot.CategoryCommunication
		default:
			s.Category = snapshot.CategorySocialMedia
		}
		s.BrowserDomain = site
		break
	}

	// "query - Google Search - Google Chrome"
	if strings.Contains(title, "- Google Search") ||
		strings.Contains(title, "- Bing") ||
		strings.Contains(title, "- DuckDuckGo") {
		if q, _, ok := strings.Cut(title, " - "); ok {
			s.LastSearchQuery = strings.TrimSpace(q)
		}
		s.Category = snapshot.CategoryDocumentation
	}
	return true
}

// ExtractDomain strips the scheme and path from a URL:
// "https://stackoverflow.com/questions/123" -> "stackoverflow.com".
func ExtractDomain(url string) string {
	d := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}
