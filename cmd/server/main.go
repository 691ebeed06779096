package main

import (
	"os"

	"retro-ai-online/backend/internal/app"
)

//	@title			Retro AI Online API
//	@version		1.0
//	@description	Backend for the Retro AI Online chat client. Persists characters,
//	@description	conversations and settings locally and proxies chat completions to
//	@description	an OpenAI-compatible endpoint.
//	@BasePath		/api

func main() {
	os.Exit(app.Run())
}
