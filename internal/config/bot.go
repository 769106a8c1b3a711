package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	APIURL     string `env:"API_URL" envDefault:"http://localhost:8080"`
	WSURL      string `env:"WS_URL" envDefault:"ws://localhost:8080"`
	PlayerID   string `env:"PLAYER_ID" envDefault:"bot"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"Bingo Bot"`
	RoomID     string `env:"ROOM_ID" envDefault:"free"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
