// Package main is the entry point for the Due Diligence QA Service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	qa "github.com/remon-rakibul/DueDiligence/internal/qa"
)

func main() {
	qa.NewApp().Run()
}
