package u2m

import (
	"bytes"
	_ "embed"
	"html/template"
)

type SimplePage struct {
	Title   string
	Heading string
	Content string
	Code    string
}

var (
	//go:embed templates/simple.html
	simpleHtmlPage string

	simpleTemplate = template.Must(template.New("simple").Parse(simpleHtmlPage))
)

func renderHTML(data SimplePage) (string, error) {
	var out bytes.Buffer
	err := simpleTemplate.Execute(&out, data)
	return out.String(), err
}

func infoHTML(title, content string) string {
	data := SimplePage{
		Title:   "Authorization Complete",
		Heading: title,
		Content: content,
	}
	out, _ := renderHTML(data)
	return out
}

func errorHTML(msg string) string {
	data := SimplePage{
		Title:   "Authorization Error",
		Heading: "Ooops!",
		Content: "Challonge could not authorize this application. Please try again.",
		Code:    msg,
	}
	out, _ := renderHTML(data)
	return out
}
