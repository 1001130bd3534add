package main

import (
	"log"

	corecmd "bindcast/core/cmd"
	"bindcast/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "configs/config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.Load(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("bindcast exited with error: %v", err)
	}
}
