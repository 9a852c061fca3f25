package main

import "sira/internal/app"

// @title           Sira API
// @version         1.0
// @description     Marketplace backend for posting tasks and booking taskers.

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	app.Run()
}
