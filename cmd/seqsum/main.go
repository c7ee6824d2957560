// cmd/seqsum/main.go
package main

import (
	"seqsum/internal/app"
	"seqsum/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
