package main

import "campusmarket/internal/app"

// @title           Campus Pre-owned Market API
// @version         1.0
// @description     Backend for the campus second-hand marketplace: auth with email verification codes, products, messages, wishlist and sell records.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
