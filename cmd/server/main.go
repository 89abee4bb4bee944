package main

import (
	"postboard/internal/app"
	"postboard/pkg/config"
)

// @title           Postboard API
// @version         1.0
// @description     Register, post, like and discuss. Sessions are carried in an HttpOnly cookie.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name postboard_session
// @description Set by POST /login. A "Bearer <token>" Authorization header is accepted as well.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}
