package bookmarklet

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"
)

// source is the readable form of the bookmarklet. Every line must end a
// statement or open/close a block: Render joins the trimmed lines with
// nothing in between.
const source = `javascript:(
    function() {
        var url = {{.LinkBase}};
        var href = window.location.href;
        var args = [
            'title=' + encodeURIComponent(document.title)
        ];
        var patterns = [{{range $i, $p := .Patterns}}{{if $i}}, {{end}}new RegExp({{$p}}){{end}}];
        var video = false;
        for (var i = 0; i < patterns.length; i++) {
            if (href.match(patterns[i])) {
                video = true;
            }
        }
        if (video) {
            url = {{.VideoBase}};
            args.push('video_url=' + encodeURIComponent(href));
        } else {
            args.push('link_url=' + encodeURIComponent(href));
        }
        window.location = url + args.join('&');
    }
)()`

var sourceTemplate = template.Must(template.New("bookmarklet").Parse(source))

type renderData struct {
	LinkBase  string
	VideoBase string
	Patterns  []string
}

// Render returns the bookmarklet for cfg as a single-line javascript: URL
// body, ready to be used as a bookmark.
func Render(cfg Config) (string, error) {
	src, err := RenderSource(cfg)
	if err != nil {
		return "", err
	}
	return compress(src), nil
}

// RenderSource returns the bookmarklet with line breaks and indentation kept.
func RenderSource(cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	data := renderData{
		LinkBase:  jsString(queryBase(cfg.LinkURL)),
		VideoBase: jsString(queryBase(cfg.VideoURL)),
	}
	for _, p := range cfg.VideoPatterns {
		data.Patterns = append(data.Patterns, jsString(p))
	}

	var buf bytes.Buffer
	if err := sourceTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Href escapes a rendered bookmarklet for use as a link target. Browsers
// percent-decode javascript: URLs before running them.
func Href(bookmarklet string) string {
	return hrefEscaper.Replace(bookmarklet)
}

var hrefEscaper = strings.NewReplacer(
	"%", "%25",
	" ", "%20",
	`"`, "%22",
)

func compress(src string) string {
	var b strings.Builder
	for _, line := range strings.Split(src, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshalling a string cannot fail.
		panic(err)
	}
	return string(b)
}
