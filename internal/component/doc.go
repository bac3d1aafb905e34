// Package component defines the UI controls a chailab page is built from.
//
// # Overview
//
// A Component is a declarative description of one control: a type
// discriminator the browser client switches on, a set of aliases a registry
// binds to it, a default label, and a prop bag. Props() returns the
// serializable view sent to the client, with defaults filled in and derived
// fields computed (the slider's clamped value list, the markdown "html").
//
// # Rendering
//
// ToConfig produces the {id, type, props, label} record embedded in the page
// and returned from /config. The id is positional and assigned by the owning
// interface. Labels resolve in this order:
//
//  1. explicit label argument
//  2. the "label" prop
//  3. DefaultLabel()
//  4. the id title-cased, e.g. "input_0" becomes "Input 0"
//
// # Built-ins
//
//   - Input: single-line text box (aliases input, textbox)
//   - Text: text display, the fallback output (aliases text, output)
//   - Slider: numeric range with list-valued position (slider, range)
//   - Number, Checkbox, Button, Label, Card
//   - Markdown: source rendered server-side with goldmark (markdown, md)
//
// # Errors
//
// Props that cannot be encoded as JSON fail ToConfig with a
// *ConfigurationError wrapping ErrNotSerializable.
package component
