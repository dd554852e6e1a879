// ./main.go
package main

import (
	"github.com/xkilldash9x/trackscope-cli/cmd"
)

func main() {
	cmd.Execute()
}
