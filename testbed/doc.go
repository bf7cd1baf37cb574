// Package testbed holds end-to-end tests that run the adapters of
// adapters.yaml against adapters.wasm through the manifest, engine and
// interpreter packages.
package testbed
