package main

import (
	"exusiai.dev/groupby/cmd/app"
)

func main() {
	app.Run()
}
