package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/HamidMoopen/memo-ai-sub000/eternaservice"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := eternaservice.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
