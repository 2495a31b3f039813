package main

import (
	"fmt"
	"os"

	"github.com/yungbote/classmode-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := a.Run(":" + port); err != nil {
		a.Log.Error("Server exited", "error", err)
	}
}
