// Package translator converts WebGL2 GLSL into the dialect of the running
// context with goshadertranslator.
package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	initOnce   sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", initErr)
	}
	return translator, nil
}

// Dialect is a translation target.
type Dialect int

const (
	GLSL410 Dialect = iota
	GLSL330
	ESSL
)

func (d Dialect) String() string {
	switch d {
	case GLSL410:
		return "glsl410"
	case GLSL330:
		return "glsl330"
	case ESSL:
		return "essl"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect accepts the names printed by Dialect.String, case-insensitively.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "glsl410", "":
		return GLSL410, nil
	case "glsl330":
		return GLSL330, nil
	case "essl", "gles":
		return ESSL, nil
	}
	return 0, fmt.Errorf("unknown shader dialect %q", s)
}

// Translator adapts the shared translator to program.Translator.
type Translator struct {
	dialect Dialect
}

// New returns a Translator targeting d.
func New(d Dialect) *Translator {
	return &Translator{dialect: d}
}

// Translate converts source for the given stage ("vertex" or "fragment") and
// returns the translated code with the identifier mapping the translator
// applied.
func (t *Translator) Translate(source, stage string) (string, map[string]string, error) {
	tr, err := GetTranslator()
	if err != nil {
		return "", nil, err
	}

	outputFormat := gst.OutputFormatGLSL410
	switch t.dialect {
	case GLSL330:
		outputFormat = gst.OutputFormatGLSL330
	case ESSL:
		outputFormat = gst.OutputFormatESSL
	}

	shader, err := tr.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, err
	}

	names := make(map[string]string, len(shader.Variables))
	for name, v := range shader.Variables {
		if v.MappedName != "" {
			names[name] = v.MappedName
		}
	}
	return shader.Code, names, nil
}
