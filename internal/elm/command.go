package elm

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/elmbrunch/internal/foundation"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
)

var lower = cases.Lower(language.Und)

// ModuleName returns the lowercased base name of src without its extension.
// "app/Main.elm" becomes "main".
func ModuleName(src string) string {
	base := filepath.Base(src)
	return lower.String(strings.TrimSuffix(base, filepath.Ext(base)))
}

// OutputFile returns where the compiled JavaScript for src is written.
func OutputFile(outputFolder, src string) string {
	return filepath.Join(outputFolder, ModuleName(src)+".js")
}

// CompileCommand builds the command that compiles src into outputFile.
// The command runs in elmFolder when it is set.
func CompileCommand(src string, elmFolder foundation.Option[string], outputFile string) process.Command {
	return process.Command{
		Line:   "elm make --yes --output " + outputFile + " " + src,
		Argv:   []string{"elm", "make", "--yes", "--output", outputFile, src},
		Dir:    elmFolder,
		Labels: map[string]string{
			logfields.KeySource: src,
			logfields.KeyOutput: outputFile,
		},
	}
}

// Describe renders the human-readable line logged before a launch.
func Describe(src string, elmFolder foundation.Option[string], outputFile string) string {
	var b strings.Builder
	b.WriteString("Elm compile: ")
	b.WriteString(src)
	if folder, ok := elmFolder.Get(); ok {
		b.WriteString(", in ")
		b.WriteString(folder)
	}
	b.WriteString(", to ")
	b.WriteString(outputFile)
	return b.String()
}
