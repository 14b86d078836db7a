package main

import "github.com/emiliopalmerini/activitybot/internal/cli"

func main() {
	cli.Execute()
}
