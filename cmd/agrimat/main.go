// CLI entry point for the AgriMat platform.
package main

import "github.com/turtacn/AgriMat-Platform/internal/interfaces/cli"

func main() {
	cli.Main()
}
