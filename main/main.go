package main

import (
	"log"

	"github.com/awaketai/news-aggregator/cmd"
)

func main() {
	if err := cmd.Execute(Printer); err != nil {
		log.Fatalf("run err:%v", err)
	}
}
