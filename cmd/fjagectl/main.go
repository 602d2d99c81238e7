// cmd/fjagectl/main.go
// Entrypoint for the `fjagectl` CLI binary. The file is intentionally tiny:
// it delegates all logic to the root command defined in root.go.
package main

func main() {
	Execute()
}
