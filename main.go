/*
Copyright © 2025 arthamitra
*/
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/arthamitra/finassist-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}
}
