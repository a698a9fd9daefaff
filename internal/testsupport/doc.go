// Package testsupport provides shared helpers for building test
// configurations backed by temp directories and stub stage scripts.
package testsupport
