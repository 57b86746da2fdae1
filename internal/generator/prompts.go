package generator

import (
	"strings"
	"text/template"
)

const createSystemPrompt = `You are an expert full-stack web developer specializing in building single-page applications.
Your task is to generate complete, production-ready HTML, CSS, and JavaScript code based on requirements.

IMPORTANT REQUIREMENTS:
1. Always generate code in the exact format specified below
2. Create minimal but fully functional applications
3. Use professional design with Bootstrap 5 from CDN
4. Include comprehensive error handling
5. Write clean, well-commented code
6. Generate a professional README.md file
7. Include a complete MIT LICENSE

OUTPUT FORMAT:
Return your response EXACTLY in this format with no additional text:

<FILE name="index.html">
[HTML content here]
</FILE>

<FILE name="style.css">
[CSS content here]
</FILE>

<FILE name="script.js">
[JavaScript content here]
</FILE>

<FILE name="README.md">
[Markdown content with: Overview, Setup, Usage, Features, License]
</FILE>

<FILE name="LICENSE">
[MIT License text]
</FILE>`

const reviseSystemPrompt = `You are an expert web developer specializing in revising and improving web applications.
Your task is to take existing application requirements and generate updated HTML, CSS, and JavaScript code.

IMPORTANT REQUIREMENTS:
1. Always generate code in the exact format specified below
2. Keep existing functionality and enhance it
3. Ensure code is minimal, clean, and well-commented
4. Use Bootstrap 5 from CDN for professional styling
5. Include proper error handling and user feedback
6. Write a comprehensive README.md file
7. Include a complete MIT LICENSE

OUTPUT FORMAT:
Return your response EXACTLY in this format with no additional text:

<FILE name="index.html">
[HTML content here]
</FILE>

<FILE name="style.css">
[CSS content here]
</FILE>

<FILE name="script.js">
[JavaScript content here]
</FILE>

<FILE name="README.md">
[Markdown content here]
</FILE>

<FILE name="LICENSE">
[MIT License text]
</FILE>`

func systemPrompt(revision bool) string {
	if revision {
		return reviseSystemPrompt
	}
	return createSystemPrompt
}

type userPromptFields struct {
	Action          string
	Goal            string
	Brief           string
	Checks          []string
	AttachmentNames string
}

const userPromptText = `Please {{ .Action }} a web application based on these requirements:

BRIEF:
{{ .Brief }}

REQUIREMENTS TO MEET:
{{ range .Checks }}  - {{ . }}
{{ end }}{{ if .AttachmentNames }}
Attachments provided: {{ .AttachmentNames }}
{{ end }}
{{ .Goal }}
Create index.html, style.css, script.js, README.md, and LICENSE files.
Return ONLY the formatted response as specified.`

var userPromptTmpl = template.Must(template.New("userPrompt").Parse(userPromptText))

func buildUserPrompt(req Request) (string, error) {
	fields := userPromptFields{
		Action:          "create a new",
		Goal:            "Generate a complete, production-ready single-page application that meets ALL requirements.",
		Brief:           req.Brief,
		Checks:          req.Checks,
		AttachmentNames: strings.Join(req.AttachmentNames, ", "),
	}
	if req.Revision {
		fields.Action = "revise and enhance"
		fields.Goal = "Update the code to meet all requirements while maintaining existing functionality."
	}

	var b strings.Builder
	if err := userPromptTmpl.Execute(&b, fields); err != nil {
		return "", err
	}
	return b.String(), nil
}
