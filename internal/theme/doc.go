// Package theme provides the named color palettes chailab pages are styled with.
//
// Themes are CSS custom properties in shadcn/ui's HSL component format
// ("222.2 84% 4.9%"). CSS renders the selected palette under :root and the
// dark palette under .dark so the client can toggle dark mode with a class.
//
// Known themes: default, dark, blue, green, purple. Unknown names fall back
// to default.
package theme
