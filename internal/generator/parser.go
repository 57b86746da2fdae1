package generator

import (
	"regexp"
	"strings"
)

var (
	fileBlockRe = regexp.MustCompile(`(?s)<FILE name="([^"]+)">\n(.*?)\n</FILE>`)
	fileOpenRe  = regexp.MustCompile(`<FILE name="([^"]+)">`)
)

// ParseResponse extracts tagged file blocks from a model response. Well
// formed blocks are matched directly; if none match, a line scan recovers
// files from responses with malformed or missing closing tags.
func ParseResponse(text string) FileSet {
	files := FileSet{}
	for _, m := range fileBlockRe.FindAllStringSubmatch(text, -1) {
		files[m[1]] = strings.TrimSpace(m[2])
	}
	if len(files) > 0 {
		return files
	}
	return scanResponse(text)
}

func scanResponse(text string) FileSet {
	files := FileSet{}

	var name string
	var content []string

	flush := func() {
		if name != "" {
			files[name] = strings.TrimSpace(strings.Join(content, "\n"))
		}
		name = ""
		content = nil
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, `<FILE name="`):
			flush()
			if m := fileOpenRe.FindStringSubmatch(line); m != nil {
				name = m[1]
			}
		case strings.HasPrefix(line, "</FILE>"):
			flush()
		case name != "":
			content = append(content, line)
		}
	}
	flush()

	return files
}
