package config

import "os"

func IsDebug() bool {
	return os.Getenv("SLACKWATCH_DEBUG") == "1"
}
