// ABOUTME: Turns heterogeneous input/output specs into ordered component lists
// ABOUTME: Text-ish names become text boxes as inputs and text displays as outputs

package bridge

import (
	"fmt"
	"strings"

	"github.com/2389/chailab/internal/component"
	"github.com/2389/chailab/internal/registry"
)

// Side names which end of the function a component list describes.
type Side string

const (
	SideInputs  Side = "inputs"
	SideOutputs Side = "outputs"
)

// inputAliases maps text-ish names to the text box when used as inputs.
var inputAliases = map[string]string{
	"text":   "input",
	"str":    "input",
	"string": "input",
}

// outputSynonyms always mean a text display when used as outputs, even
// where the registry binds the name to another component.
var outputSynonyms = map[string]bool{
	"text":    true,
	"textbox": true,
	"output":  true,
	"label":   true,
	"str":     true,
	"string":  true,
}

// NormalizeComponents accepts a single spec or a slice of specs. Each entry
// may be a component, an alias string, or a constructor. Failures are
// reported as *component.ConfigurationError naming side and position.
func NormalizeComponents(reg *registry.Registry, side Side, spec any) ([]component.Component, error) {
	var items []any
	switch s := spec.(type) {
	case nil:
		return nil, nil
	case []any:
		items = s
	case []string:
		for _, v := range s {
			items = append(items, v)
		}
	case []component.Component:
		for _, v := range s {
			items = append(items, v)
		}
	case []registry.Constructor:
		for _, v := range s {
			items = append(items, v)
		}
	default:
		items = []any{spec}
	}

	out := make([]component.Component, 0, len(items))
	for i, item := range items {
		if name, ok := item.(string); ok {
			key := strings.ToLower(strings.TrimSpace(name))
			if side == SideOutputs && outputSynonyms[key] {
				out = append(out, component.NewText())
				continue
			}
			if alias, ok := inputAliases[key]; ok && side == SideInputs {
				item = alias
			}
		}
		c, err := reg.Resolve(item)
		if err != nil {
			return nil, &component.ConfigurationError{Subject: fmt.Sprintf("%s[%d]", side, i), Err: err}
		}
		out = append(out, c)
	}
	return out, nil
}
