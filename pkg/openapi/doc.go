// Package openapi describes the submission contract of a form as OpenAPI 3
// component schemas, so hosts can publish and check what a checkout form
// posts. It builds on kin-openapi.
package openapi
