package packages

import (
	"bytes"
	"embed"
	"text/template"

	"al.essio.dev/pkg/shellescape"
	"github.com/Masterminds/sprig/v3"

	"github.com/arthur-debert/omarchy-setup/pkg/errors"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const scriptTemplate = "setup-omarchy.sh.tmpl"

// ScriptData is the input of the replay script template.
type ScriptData struct {
	ListFile string
	Helper   string
	Flags    []string
	Packages []string
}

func parseTemplates() (*template.Template, error) {
	funcs := sprig.TxtFuncMap()
	funcs["shquote"] = shellescape.Quote
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
}

// RenderScript renders the setup-omarchy script that reinstalls every
// listed package.
func RenderScript(data ScriptData) ([]byte, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse script template")
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, scriptTemplate, data); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render script")
	}
	return buf.Bytes(), nil
}
