package main

import "github.com/agentfleet/fleetconsole/pkg/cli"

func main() {
	cli.Execute()
}
