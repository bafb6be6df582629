package main

import (
	"github.com/fraugster/xpq/internal/cmds"
)

func main() {
	cmds.Execute()
}
