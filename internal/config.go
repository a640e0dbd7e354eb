package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host             string        `env:"HOST,default=0.0.0.0"`
	Port             int           `env:"PORT,required=true"`
	LogLevel         string        `env:"LOG_LEVEL,required=true"`
	BufferSize       int           `env:"BUFFER_SIZE,required=true"`
	ReadTimeout      time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT,required=true"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,required=true"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,required=true"`
	EnableModeration bool          `env:"ENABLE_MODERATION,required=true"`
	CharReplacement  string        `env:"CHARACTER_REPLACEMENT,required=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
