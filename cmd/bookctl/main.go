package main

import "github.com/nekogravitycat/partner-booking-backend/internal/cli"

func main() {
	cli.Execute()
}
