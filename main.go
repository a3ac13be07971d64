/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/loot-table/cmd"

func main() {
	cmd.Execute()
}
