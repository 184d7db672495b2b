package main

import "github.com/MikeSquared-Agency/Retrofit/internal/cli"

func main() {
	cli.Execute()
}
