package metadata

import "regexp"

// The grammar attaches a comment to the node that follows it, so a default comment written after a
// parameter (`int dtype/*=-1*/,`) would end up on the next parameter. Repair moves such comments in
// front of their parameter. Remove once the declaration files stop emitting trailing comments.
const (
	// ReorderPattern splits a parameter into three capture groups:
	// the type and name with optional varargs, the default comment after it, and the separator ending it.
	ReorderPattern = `([A-Za-z1-9]+ (?:\.\.\.)?[a-z][A-Za-z0-9_]*)(/\*=[^ ]*\*/)((?:,)|(?:\s*\)))`

	// ReorderReplacement puts the comment group of ReorderPattern first.
	ReorderReplacement = "${2}${1}${3}"
)

var reorder = regexp.MustCompile(ReorderPattern)

// Repair rewrites the whole input so every trailing default comment precedes the parameter it describes.
func Repair(source []byte) []byte {
	return reorder.ReplaceAll(source, []byte(ReorderReplacement))
}
