package main

import "lensbook-backend/cmd"

func main() {
	cmd.Run()
}
