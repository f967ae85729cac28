// Package latex converts LaTeX course material into plain, retrievable text.
//
// Normalise applies an ordered list of rewrite rules. Order matters: display
// math must be captured before inline math, drawing environments before the
// generic command stripper, and so on. The function is pure and never fails;
// malformed markup simply passes through the later generic rules.
package latex

import (
	"regexp"
	"strings"
)

// PageBreak is the sentinel line emitted for \newpage and \clearpage.
// The segmenter splits on it.
const PageBreak = "---NUEVA PAGINA---"

// Placeholders for non-textual content.
const (
	EquationPrefix   = "ECUACION: "
	MathPrefix       = "MATH: "
	CircuitDiagram   = "[DIAGRAMA DE CIRCUITO]"
	Diagram          = "[DIAGRAMA]"
	ImagePlaceholder = "[IMAGEN]"
	ListMarker       = "LISTA:"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

func rewrite(pattern, repl string) rule {
	return rule{re: regexp.MustCompile(pattern), repl: repl}
}

// rules run top to bottom. Replacement strings use regexp.Expand syntax.
var rules = []rule{
	// comments
	rewrite(`%.*`, ""),

	// equations, display math first
	rewrite(`(?s)\\begin\{equation\}(.*?)\\end\{equation\}`, EquationPrefix+"${1}"),
	rewrite(`(?s)\\begin\{align\*?\}(.*?)\\end\{align\*?\}`, EquationPrefix+"${1}"),
	rewrite(`(?s)\\begin\{eqnarray\}(.*?)\\end\{eqnarray\}`, EquationPrefix+"${1}"),
	rewrite(`(?s)\\\[(.*?)\\\]`, EquationPrefix+"${1}"),
	rewrite(`(?s)\$\$(.*?)\$\$`, EquationPrefix+"${1}"),
	rewrite(`\$(.*?)\$`, MathPrefix+"${1}"),

	// drawings and images
	rewrite(`(?s)\\begin\{circuitikz\}.*?\\end\{circuitikz\}`, CircuitDiagram),
	rewrite(`(?s)\\begin\{tikzpicture\}.*?\\end\{tikzpicture\}`, Diagram),
	rewrite(`\\includegraphics.*?\{.*?\}`, ImagePlaceholder),

	// preamble and page breaks
	rewrite(`\\documentclass.*`, ""),
	rewrite(`\\usepackage.*`, ""),
	rewrite(`\\geometry.*`, ""),
	rewrite(`\\begin\{document\}`, ""),
	rewrite(`\\end\{document\}`, ""),
	rewrite(`\\newpage`, "\n"+PageBreak+"\n"),
	rewrite(`\\clearpage`, "\n"+PageBreak+"\n"),

	// inline formatting and headings
	rewrite(`\\textbf\{(.*?)\}`, "**${1}**"),
	rewrite(`\\textit\{(.*?)\}`, "*${1}*"),
	rewrite(`\\textcolor\{[^}]+\}\{(.*?)\}`, "${1}"),
	rewrite(`\\section\*?\{(.*?)\}`, "\n## ${1}\n"),
	rewrite(`\\subsection\*?\{(.*?)\}`, "\n### ${1}\n"),
	rewrite(`\\paragraph\{(.*?)\}`, "\n**${1}**\n"),

	// lists
	rewrite(`\\begin\{enumerate\}.*?\{(.*?)\}`, "\n"+ListMarker),
	rewrite(`\\begin\{enumerate\}`, "\n"+ListMarker),
	rewrite(`\\end\{enumerate\}`, ""),
	rewrite(`\\begin\{itemize\}`, "\n"+ListMarker),
	rewrite(`\\end\{itemize\}`, ""),
	rewrite(`\\item\[(.*?)\]`, "\n- ${1}: "),
	rewrite(`\\item`, "\n- "),

	// layout wrappers, content kept
	rewrite(`\\begin\{minipage\}.*?\{.*?\}`, ""),
	rewrite(`\\end\{minipage\}`, ""),
	rewrite(`\\begin\{center\}`, ""),
	rewrite(`\\end\{center\}`, ""),
	rewrite(`\\begin\{wrapfigure\}.*?\{.*?\}`, ""),
	rewrite(`\\end\{wrapfigure\}`, ""),

	// anything left: keep a command's argument, drop bare commands
	rewrite(`\\[a-zA-Z]+\{([^}]*)\}`, "${1}"),
	rewrite(`\\[a-zA-Z]+`, ""),

	// whitespace
	rewrite(`\n{3,}`, "\n\n"),
	rewrite(` {2,}`, " "),
}

// Normalise converts LaTeX source into plain text with equation, diagram,
// heading and list markers.
func Normalise(text string) string {
	for _, rl := range rules {
		text = rl.re.ReplaceAllString(text, rl.repl)
	}
	return strings.TrimSpace(text)
}
