package main

import (
	"github.com/Egoriy286/yandex-cloud-instance-start/cmd"
)

func main() {
	cmd.Execute()
}
