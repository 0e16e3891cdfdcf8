package main

import (
	"github.com/DYAI2025/Vipe-minecraft-modder/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
