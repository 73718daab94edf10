// Package main provides the complink command, which measures compressed
// memory traffic and simulates compression-aware memory links.
package main

func main() {
	Execute()
}
