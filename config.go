package main

import (
	"os"

	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"

	"github.com/ttpr0/go-transport/geo"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) Config {
	slog.Info("Reading config file")
	data, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read config file: " + err.Error())
		panic(err)
	}
	config := DefaultConfig()
	yaml.Unmarshal(data, &config)
	return config
}

func DefaultConfig() Config {
	config := Config{}
	config.Server.Address = ":5002"
	config.World.Min = [3]float64{-100000, -100000, -1000}
	config.World.Max = [3]float64{100000, 100000, 1000}
	config.Routing.MaxExpansions = 50000
	config.Cache.Policy = "lru"
	config.Network.TickSeconds = 1.0
	config.Maintenance.UpgradeBudget = 1000000.0
	return config
}

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	World struct {
		Min [3]float64 `yaml:"min"`
		Max [3]float64 `yaml:"max"`
	} `yaml:"world"`
	Routing struct {
		MaxExpansions int `yaml:"max-expansions"`
	} `yaml:"routing"`
	Cache struct {
		Policy string `yaml:"policy"`
	} `yaml:"cache"`
	Network struct {
		TickSeconds float64 `yaml:"tick-seconds"`
	} `yaml:"network"`
	Maintenance struct {
		UpgradeBudget float64          `yaml:"upgrade-budget"`
		Resources     []ResourceOption `yaml:"resources"`
	} `yaml:"maintenance"`
}

type ResourceOption struct {
	ID          string  `yaml:"id"`
	Type        string  `yaml:"type"`
	Capacity    float64 `yaml:"capacity"`
	CostPerUnit float64 `yaml:"cost-per-unit"`
}

func (self Config) WorldMin() geo.Point {
	return geo.NewPoint(self.World.Min[0], self.World.Min[1], self.World.Min[2])
}

func (self Config) WorldMax() geo.Point {
	return geo.NewPoint(self.World.Max[0], self.World.Max[1], self.World.Max[2])
}
