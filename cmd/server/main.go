package main

import (
	"github.com/sirupsen/logrus"

	"vidtube/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}
