// Package params models the SOFI2D parameter file: a flat ordered JSON
// mapping of uppercase parameter names to string values, with descriptive
// entries whose value is "comment". Render and Parse are inverses over
// files this package wrote.
package params
