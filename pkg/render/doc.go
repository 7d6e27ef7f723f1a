// Package render turns bound form elements into a renderer-agnostic Form
// snapshot and defines the Renderer contract implemented by the HTML and
// JSON renderers. It also carries the helpers shared by renderers: hidden
// fields, server error payload mapping and field subsets.
package render
