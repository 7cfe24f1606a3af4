// Package model defines the form schema document consumed by every other
// package: a Schema holds ordered Sections, each Section holds ordered Fields,
// and a Field is a tagged union over the six supported kinds (text, email,
// textarea, number, date, select) discriminated by Field.Type.
//
// Validation constraints can be declared flat on the field (the older format)
// or nested under `validation`. The Resolve* methods on Field are the single
// place where the two are reconciled; the flat value always wins.
//
// The Kinds table is the single source of truth for which field kinds exist
// and how text input is coerced into submission values for each of them.
package model
