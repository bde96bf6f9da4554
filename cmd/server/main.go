package main

import "shopauth/internal/app"

// @title           shopauth API
// @version         1.0
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.Run()
}
