package main

import "github.com/stagecontrol/admin-user-services/cmd"

func main() {
	cmd.Execute()
}
