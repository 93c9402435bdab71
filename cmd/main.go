package main

import (
	"github.com/corray333/backend-labs/orderdesk/internal/app"
	"github.com/corray333/backend-labs/orderdesk/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
